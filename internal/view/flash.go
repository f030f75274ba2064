package view

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
)

type Flash struct {
	Category constants.FlashCategory `json:"c"`
	Message  string                  `json:"m"`
}

// SetFlash 訊息存在 cookie, 下一次渲染頁面時取出
func SetFlash(w http.ResponseWriter, r *http.Request, category constants.FlashCategory, msg string) {
	flashes := readFlashes(r)
	flashes = append(flashes, Flash{Category: category, Message: msg})

	data, err := json.Marshal(flashes)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.FlashCookieName,
		Value:    base64.RawURLEncoding.EncodeToString(data),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// PopFlashes 取出並清除
func PopFlashes(w http.ResponseWriter, r *http.Request) []Flash {
	flashes := readFlashes(r)
	if len(flashes) == 0 {
		return nil
	}
	http.SetCookie(w, &http.Cookie{
		Name:     constants.FlashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return flashes
}

func readFlashes(r *http.Request) []Flash {
	cookie, err := r.Cookie(constants.FlashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}
	data, err := base64.RawURLEncoding.DecodeString(cookie.Value)
	if err != nil {
		return nil
	}
	var flashes []Flash
	if err := json.Unmarshal(data, &flashes); err != nil {
		return nil
	}
	return flashes
}
