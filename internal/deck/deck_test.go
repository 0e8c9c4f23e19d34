package deck

import "testing"

func TestDeckSize(t *testing.T) {
	cards := Cards()
	if len(cards) != 78 {
		t.Fatalf("len(Cards()) = %d, want 78", len(cards))
	}

	majors, minors := 0, 0
	for _, c := range cards {
		switch c.Arcana {
		case Major:
			majors++
		case Minor:
			minors++
		}
	}
	if majors != 22 {
		t.Errorf("major arcana count = %d, want 22", majors)
	}
	if minors != 56 {
		t.Errorf("minor arcana count = %d, want 56", minors)
	}
}

func TestUniqueCardNames(t *testing.T) {
	seen := make(map[string]bool)
	for _, c := range Cards() {
		if seen[c.Name] {
			t.Errorf("duplicate card name %q", c.Name)
		}
		seen[c.Name] = true
	}
}

func TestMinorElementsFollowSuit(t *testing.T) {
	want := map[Suit]Element{
		Wands:     Fire,
		Cups:      Water,
		Swords:    Air,
		Pentacles: Earth,
	}
	for _, c := range Cards() {
		if c.Arcana != Minor {
			continue
		}
		if c.Element != want[c.Suit] {
			t.Errorf("%s: element = %s, want %s", c.Name, c.Element, want[c.Suit])
		}
	}
}

func TestCardByName(t *testing.T) {
	c, ok := CardByName("The Fool")
	if !ok {
		t.Fatal("CardByName(The Fool) not found")
	}
	if c.Element != Air || c.Arcana != Major {
		t.Errorf("The Fool = %+v, want Air major", c)
	}
	if len(c.Keywords) == 0 {
		t.Error("The Fool has no keywords")
	}

	if _, ok := CardByName("Nonexistent Card"); ok {
		t.Error("CardByName(Nonexistent Card) found, want miss")
	}
}

func TestEveryCardHasKeywords(t *testing.T) {
	for _, c := range Cards() {
		if len(c.Keywords) < 2 {
			t.Errorf("%s has %d keywords, want at least 2", c.Name, len(c.Keywords))
		}
	}
}

func TestValidate(t *testing.T) {
	if err := Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
}

func TestSpreadSizes(t *testing.T) {
	want := map[string]int{
		"single":      1,
		"threeCard":   3,
		"situation":   3,
		"horseshoe":   7,
		"celticCross": 10,
	}
	spreads := Spreads()
	if len(spreads) != 5 {
		t.Fatalf("len(Spreads()) = %d, want 5", len(spreads))
	}
	for _, s := range spreads {
		if s.Size() != want[s.ID] {
			t.Errorf("spread %s size = %d, want %d", s.ID, s.Size(), want[s.ID])
		}
	}
}

func TestThreeCardPositionOrder(t *testing.T) {
	s, ok := SpreadByID("threeCard")
	if !ok {
		t.Fatal("threeCard spread not found")
	}
	wantNames := []string{"Past", "Present", "Future"}
	for i, p := range s.Positions {
		if p.Name != wantNames[i] {
			t.Errorf("position %d = %q, want %q", i, p.Name, wantNames[i])
		}
	}
}

func TestSpreadByName(t *testing.T) {
	s, ok := SpreadByName("Celtic Cross")
	if !ok || s.ID != "celticCross" {
		t.Errorf("SpreadByName(Celtic Cross) = %v %v, want celticCross", s.ID, ok)
	}
	if _, ok := SpreadByName("No Such Spread"); ok {
		t.Error("SpreadByName(No Such Spread) found, want miss")
	}
}
