package domain

import "testing"

func TestResolveTier(t *testing.T) {
	ch := Character{ID: 1, AccountID: 10}
	owner := int64(10)
	stranger := int64(11)

	cases := []struct {
		name      string
		requester *int64
		want      Tier
	}{
		{"anonymous", nil, TierAnonymous},
		{"owner", &owner, TierOwner},
		{"non-owner", &stranger, TierNonOwner},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ResolveTier(tc.requester, ch); got != tc.want {
				t.Fatalf("expected tier %s got %s", tc.want, got)
			}
		})
	}
}

func TestProjectMoneyVisibility(t *testing.T) {
	ch := Character{ID: 1, AccountID: 10, Name: "Hero", Health: 500, Power: 100, Money: 10000}

	for _, tier := range []Tier{TierAnonymous, TierNonOwner} {
		view := ch.Project(tier)
		if view.Money != nil {
			t.Fatalf("tier %s must not expose money", tier)
		}
		if view.Name != "Hero" || view.Health != 500 || view.Power != 100 {
			t.Fatalf("tier %s lost public fields: %+v", tier, view)
		}
	}

	view := ch.Project(TierOwner)
	if view.Money == nil || *view.Money != 10000 {
		t.Fatalf("owner tier must expose money, got %+v", view)
	}
}
