package handler

import (
	"net/http"

	"github.com/RoyceAzure/lab/restaurant/internal/constants"
	"github.com/RoyceAzure/lab/restaurant/internal/pkg/apperr"
	"github.com/RoyceAzure/lab/restaurant/internal/util"
	"github.com/RoyceAzure/lab/restaurant/internal/view"
	"github.com/rs/zerolog/log"
)

// maxFormBytes 表單上限
const maxFormBytes = 1 << 20

type errorPage struct {
	Status  int
	Message string
}

// pageRenderer 所有 handler 共用的頁面輸出
type pageRenderer struct {
	renderer *view.Renderer
}

func (p pageRenderer) render(w http.ResponseWriter, r *http.Request, status int, name, title string, data any) {
	page := view.Page{
		Title:   title,
		User:    util.GetTokenPayloadFromContext(r.Context()),
		Flashes: view.PopFlashes(w, r),
		Data:    data,
	}
	if err := p.renderer.Render(w, status, name, page); err != nil {
		log.Error().Err(err).Str("request_id", util.GetRequestIDFromContext(r.Context())).Str("template", name).Msg("failed to render page")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}

// renderError 非預期錯誤記錄後輸出錯誤頁
func (p pageRenderer) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).
			Str("request_id", util.GetRequestIDFromContext(r.Context())).
			Str("method", r.Method).
			Str("url", r.URL.String()).
			Msg("request failed")
	}
	p.render(w, r, status, "error.html", http.StatusText(status), errorPage{
		Status:  status,
		Message: apperr.MessageOf(err),
	})
}

// flashRedirect 驗證類錯誤以 flash 顯示並導回表單
func (p pageRenderer) flashRedirect(w http.ResponseWriter, r *http.Request, category constants.FlashCategory, msg, to string) {
	view.SetFlash(w, r, category, msg)
	http.Redirect(w, r, to, http.StatusSeeOther)
}

// handleFormError 使用者可修正的錯誤回到表單, 其餘輸出錯誤頁
func (p pageRenderer) handleFormError(w http.ResponseWriter, r *http.Request, err error, to string) {
	switch apperr.CodeOf(err) {
	case apperr.ValidationCode, apperr.ConflictCode, apperr.UnauthenticatedCode:
		p.flashRedirect(w, r, constants.FlashDanger, apperr.MessageOf(err), to)
	default:
		p.renderError(w, r, err)
	}
}

func parseForm(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return apperr.Wrap(apperr.ValidationCode, err, "Invalid form submission.")
	}
	return nil
}
