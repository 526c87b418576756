package catalog

import "testing"

func TestDefault_LoadsEmbeddedCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default returned error: %v", err)
	}
	if len(c.Salons) != 4 {
		t.Errorf("len(Salons) = %d, want 4", len(c.Salons))
	}
	if len(c.RoomTypes) != 3 {
		t.Errorf("len(RoomTypes) = %d, want 3", len(c.RoomTypes))
	}

	s, ok := c.Salon(1)
	if !ok || s.Name != "Salón Coral" || s.Capacity != 50 {
		t.Errorf("Salon(1) = %+v, %v", s, ok)
	}
	marino, _ := c.Salon(3)
	if marino.Available {
		t.Error("Salón Marino should be unavailable")
	}

	rt, ok := c.RoomType("estandar")
	if !ok || rt.NightlyPrice != 80 || rt.PetFriendly != 40 {
		t.Errorf("RoomType(estandar) = %+v, %v", rt, ok)
	}
	suite, _ := c.RoomType("suite")
	if suite.NightlyPrice != 280 || suite.RequestPrice != 200 {
		t.Errorf("suite prices = %d/%d, want 280/200", suite.NightlyPrice, suite.RequestPrice)
	}
}

func TestLookup_Unknown(t *testing.T) {
	c := MustDefault()
	if _, ok := c.Salon(99); ok {
		t.Error("expected unknown salon")
	}
	if _, ok := c.RoomType("penthouse"); ok {
		t.Error("expected unknown room type")
	}
}

func TestParse_Rejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"invalid yaml", "salons: [::"},
		{"duplicate salon", "salons:\n  - {id: 1, name: A, capacity: 10}\n  - {id: 1, name: B, capacity: 10}\n"},
		{"zero capacity", "salons:\n  - {id: 1, name: A, capacity: 0}\n"},
		{"duplicate room", "room_types:\n  - {id: a, name: A}\n  - {id: a, name: B}\n"},
		{"missing room id", "room_types:\n  - {name: A}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}
