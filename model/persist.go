package model

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/goccy/go-json"
	"gopkg.in/yaml.v3"
)

const (
	manifestFile = "manifest.yaml"
	paramsFile   = "params.json"

	// FormatVersion 是目录格式版本，格式不兼容时递增。
	FormatVersion = 1
)

// Manifest 描述一个已保存的模型目录。
type Manifest struct {
	Name    string    `yaml:"name"`
	Version int       `yaml:"version"`
	SavedAt time.Time `yaml:"saved_at"`
}

// ReadManifest 读取 dir/manifest.yaml。
func ReadManifest(dir string) (*Manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, manifestFile))
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if m.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported model format version %d", m.Version)
	}
	return &m, nil
}

// Saved 判断 dir 下是否有已保存的模型。
func Saved(dir string) bool {
	if dir == "" {
		return false
	}
	_, err := os.Stat(filepath.Join(dir, manifestFile))
	return err == nil
}

// saveDir 写入 manifest 与参数文件。
func saveDir(dir, name string, params any) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create model dir: %w", err)
	}

	manifest, err := yaml.Marshal(&Manifest{
		Name:    name,
		Version: FormatVersion,
		SavedAt: time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, manifestFile), manifest, 0o644); err != nil {
		return fmt.Errorf("write manifest: %w", err)
	}

	data, err := json.MarshalIndent(params, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal params: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, paramsFile), data, 0o644); err != nil {
		return fmt.Errorf("write params: %w", err)
	}
	return nil
}

// loadDir 校验 manifest 中的模型名称并解析参数文件。
func loadDir(dir, name string, params any) error {
	manifest, err := ReadManifest(dir)
	if err != nil {
		return err
	}
	if manifest.Name != name {
		return fmt.Errorf("model dir holds %q, not %q", manifest.Name, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, paramsFile))
	if err != nil {
		return fmt.Errorf("read params: %w", err)
	}
	if err := json.Unmarshal(data, params); err != nil {
		return fmt.Errorf("parse params: %w", err)
	}
	return nil
}
