package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

type SeedMenuItem struct {
	Name  string `yaml:"name"`
	Price string `yaml:"price"`
}

type SeedCustomer struct {
	Name        string `yaml:"name"`
	ContactInfo string `yaml:"contact_info"`
}

// SeedConfig 啟動時寫入的初始資料, 以名稱判斷是否已存在
type SeedConfig struct {
	MenuItems []SeedMenuItem `yaml:"menu_items"`
	Customers []SeedCustomer `yaml:"customers"`
}

func LoadSeedConfig(path string) (*SeedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := &SeedConfig{}
	err = yaml.Unmarshal(data, config)
	if err != nil {
		return nil, err
	}

	return config, nil
}
