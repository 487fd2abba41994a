package filesystem

import (
	"context"
	"testing"

	"workbench/internal/domain/models"
)

func TestResolver_EffectiveCapabilities(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	folder := env.mustCreateItem(t, "owner", "Docs", models.KindFolder, nil)

	t.Run("owner holds everything", func(t *testing.T) {
		caps, err := env.resolver.EffectiveCapabilities(ctx, "owner", folder.ID)
		if err != nil {
			t.Fatalf("EffectiveCapabilities: %v", err)
		}
		if caps != models.AllCapabilities() {
			t.Errorf("owner caps = %+v, want all", caps)
		}
	})

	t.Run("stranger holds nothing", func(t *testing.T) {
		caps, err := env.resolver.EffectiveCapabilities(ctx, "stranger", folder.ID)
		if err != nil {
			t.Fatalf("EffectiveCapabilities: %v", err)
		}
		if caps != (models.Capabilities{}) {
			t.Errorf("stranger caps = %+v, want none", caps)
		}
	})

	t.Run("grantee holds exactly the grant", func(t *testing.T) {
		env.store.addUser("friend", "friend@example.com")
		env.mustGrant(t, "owner", folder.ID, "friend", models.Capabilities{CanView: true, CanEdit: true})

		caps, err := env.resolver.EffectiveCapabilities(ctx, "friend", folder.ID)
		if err != nil {
			t.Fatalf("EffectiveCapabilities: %v", err)
		}
		want := models.Capabilities{CanView: true, CanEdit: true}
		if caps != want {
			t.Errorf("grantee caps = %+v, want %+v", caps, want)
		}
	})

	t.Run("missing item resolves to nothing", func(t *testing.T) {
		caps, err := env.resolver.EffectiveCapabilities(ctx, "owner", "no-such-item")
		if err != nil {
			t.Fatalf("EffectiveCapabilities: %v", err)
		}
		if caps != (models.Capabilities{}) {
			t.Errorf("missing item caps = %+v, want none", caps)
		}
	})
}

func TestResolver_CanView_GhostAncestor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	// owner: A / B / C, grant on C only
	a := env.mustCreateItem(t, "owner", "A", models.KindFolder, nil)
	b := env.mustCreateItem(t, "owner", "B", models.KindFolder, &a.ID)
	c := env.mustCreateItem(t, "owner", "C", models.KindFolder, &b.ID)
	d := env.mustCreateItem(t, "owner", "D", models.KindFolder, &a.ID)

	env.store.addUser("viewer", "viewer@example.com")
	env.mustGrant(t, "owner", c.ID, "viewer", viewOnly())

	for _, tt := range []struct {
		name string
		item *models.Item
		want bool
	}{
		{"granted item itself", c, true},
		{"ancestor of grant", b, true},
		{"root ancestor of grant", a, true},
		{"sibling off the path", d, false},
	} {
		t.Run(tt.name, func(t *testing.T) {
			item, err := env.store.GetByID(ctx, tt.item.ID)
			if err != nil {
				t.Fatalf("GetByID: %v", err)
			}
			got, err := env.resolver.CanView(ctx, "viewer", item)
			if err != nil {
				t.Fatalf("CanView: %v", err)
			}
			if got != tt.want {
				t.Errorf("CanView(%s) = %v, want %v", tt.item.Name, got, tt.want)
			}
		})
	}

	t.Run("grant without view does not open the path", func(t *testing.T) {
		env.store.addUser("editor", "editor@example.com")
		env.mustGrant(t, "owner", c.ID, "editor", models.Capabilities{CanEdit: true})

		item, _ := env.store.GetByID(ctx, b.ID)
		got, err := env.resolver.CanView(ctx, "editor", item)
		if err != nil {
			t.Fatalf("CanView: %v", err)
		}
		if got {
			t.Error("edit-only grant should not make ancestors visible")
		}
	})
}
