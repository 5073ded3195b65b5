package config

import (
	"context"
	"fmt"

	"gopkg.in/ini.v1"
)

type WarehouseType string

const (
	WarehouseDatabricks WarehouseType = "databricks"
	WarehouseSnowflake  WarehouseType = "snowflake"
)

// Profile is one named warehouse connection from the profiles file. Fields
// that do not apply to the profile's type stay empty.
type Profile struct {
	Name string
	Type WarehouseType

	// Databricks
	Host     string
	Token    string
	HTTPPath string

	// Snowflake
	Account   string
	User      string
	Password  string
	Database  string
	Warehouse string
	Role      string
}

type Registry interface {
	GetProfiles(ctx context.Context) ([]Profile, error)
	GetProfile(ctx context.Context, name string) (*Profile, error)
}

type iniRegistry struct {
	cfg *ini.File
}

func NewRegistry(path string) (Registry, error) {
	cfg, err := ini.Load(path)
	if err != nil {
		return nil, err
	}
	return &iniRegistry{cfg: cfg}, nil
}

func (r *iniRegistry) GetProfiles(_ context.Context) ([]Profile, error) {
	var profiles []Profile
	for _, section := range r.cfg.Sections() {
		if len(section.Keys()) == 0 {
			continue
		}
		profiles = append(profiles, profileFromSection(section))
	}
	return profiles, nil
}

func (r *iniRegistry) GetProfile(_ context.Context, name string) (*Profile, error) {
	section, err := r.cfg.GetSection(name)
	if err != nil {
		return nil, fmt.Errorf("profile %s not found", name)
	}
	p := profileFromSection(section)
	return &p, nil
}

func profileFromSection(section *ini.Section) Profile {
	p := Profile{
		Name:      section.Name(),
		Type:      WarehouseType(section.Key("type").String()),
		Host:      section.Key("host").String(),
		Token:     section.Key("token").String(),
		HTTPPath:  section.Key("http_path").String(),
		Account:   section.Key("account").String(),
		User:      section.Key("user").String(),
		Password:  section.Key("password").String(),
		Database:  section.Key("database").String(),
		Warehouse: section.Key("warehouse").String(),
		Role:      section.Key("role").String(),
	}
	if p.Type == "" {
		// Legacy profiles predate the type key; host+token means Databricks.
		if p.Host != "" && p.Token != "" {
			p.Type = WarehouseDatabricks
		} else if p.Account != "" {
			p.Type = WarehouseSnowflake
		}
	}
	return p
}
