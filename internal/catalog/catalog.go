// Package catalog はサロンと客室タイプの静的な一覧を提供する。
// 在庫数は表示用の値であり、予約によって減算しない。
package catalog

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Salon はイベントサロン。
type Salon struct {
	ID        int      `yaml:"id" json:"id"`
	Name      string   `yaml:"name" json:"name"`
	Capacity  int      `yaml:"capacity" json:"capacity"`
	Available bool     `yaml:"available" json:"available"`
	Features  []string `yaml:"features" json:"features"`
}

// RoomType は客室タイプ。
type RoomType struct {
	ID           string   `yaml:"id" json:"id"`
	Name         string   `yaml:"name" json:"name"`
	NightlyPrice int      `yaml:"nightly_price" json:"nightly_price"`
	RequestPrice int      `yaml:"request_price" json:"request_price"`
	Capacity     int      `yaml:"capacity" json:"capacity"`
	Total        int      `yaml:"total" json:"total"`
	Available    int      `yaml:"available" json:"available"`
	PetFriendly  int      `yaml:"pet_friendly" json:"pet_friendly"`
	Features     []string `yaml:"features" json:"features"`
}

// Catalog はサロンと客室タイプの一覧。読み取り専用として扱う。
type Catalog struct {
	Salons    []Salon    `yaml:"salons"`
	RoomTypes []RoomType `yaml:"room_types"`
}

// Default は埋め込みの一覧を読み込む。
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// MustDefault はDefaultの結果を返し、失敗時はpanicする。埋め込みデータの破損は起動時に検出する。
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(err)
	}
	return c
}

// Parse はYAMLから一覧を読み込み、IDの重複などを検証する。
func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	salonIDs := make(map[int]bool, len(c.Salons))
	for _, s := range c.Salons {
		if s.Name == "" || s.Capacity <= 0 {
			return nil, fmt.Errorf("invalid salon entry: %+v", s)
		}
		if salonIDs[s.ID] {
			return nil, fmt.Errorf("duplicate salon id: %d", s.ID)
		}
		salonIDs[s.ID] = true
	}

	roomIDs := make(map[string]bool, len(c.RoomTypes))
	for _, rt := range c.RoomTypes {
		if rt.ID == "" || rt.Name == "" {
			return nil, fmt.Errorf("invalid room type entry: %+v", rt)
		}
		if roomIDs[rt.ID] {
			return nil, fmt.Errorf("duplicate room type id: %s", rt.ID)
		}
		roomIDs[rt.ID] = true
	}

	return &c, nil
}

// Salon は指定IDのサロンを返す。
func (c *Catalog) Salon(id int) (Salon, bool) {
	for _, s := range c.Salons {
		if s.ID == id {
			return s, true
		}
	}
	return Salon{}, false
}

// RoomType は指定IDの客室タイプを返す。
func (c *Catalog) RoomType(id string) (RoomType, bool) {
	for _, rt := range c.RoomTypes {
		if rt.ID == id {
			return rt, true
		}
	}
	return RoomType{}, false
}
