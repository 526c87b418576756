package auth

import (
	"errors"
	"testing"

	"github.com/hitoshi/costaazul/internal/model"
)

func TestPermit(t *testing.T) {
	client := &model.Identity{Name: "ana@example.com", Role: model.RoleClient}
	operator := &model.Identity{Name: "operario@costaazul.cl", Role: model.RoleOperator}

	tests := []struct {
		name     string
		identity *model.Identity
		state    State
		action   Action
		wantCode string
	}{
		{"読み込み中", nil, StateLoading, ActionRequest, model.ErrCodeGateLoading},
		{"未ログイン", nil, StateAnonymous, ActionDashboard, model.ErrCodeUnauthorized},
		{"客の申請", client, StateAuthenticated, ActionRequest, ""},
		{"客のダッシュボード", client, StateAuthenticated, ActionDashboard, ""},
		{"客の直接予約", client, StateAuthenticated, ActionReserve, model.ErrCodeForbidden},
		{"客の一覧", client, StateAuthenticated, ActionList, model.ErrCodeForbidden},
		{"客の前金記録", client, StateAuthenticated, ActionRecordDeposit, model.ErrCodeForbidden},
		{"スタッフの直接予約", operator, StateAuthenticated, ActionReserve, ""},
		{"スタッフの一覧", operator, StateAuthenticated, ActionList, ""},
		{"スタッフの前金記録", operator, StateAuthenticated, ActionRecordDeposit, ""},
		{"スタッフの申請", operator, StateAuthenticated, ActionRequest, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Permit(tt.identity, tt.state, tt.action)
			if tt.wantCode == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			var apiErr *model.APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("err = %v, want *model.APIError", err)
			}
			if apiErr.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", apiErr.Code, tt.wantCode)
			}
		})
	}
}

func TestMenu(t *testing.T) {
	if got := Menu(model.RoleOperator); len(got) != 3 {
		t.Errorf("operator menu has %d items, want 3", len(got))
	}
	client := Menu(model.RoleClient)
	if len(client) != 2 {
		t.Fatalf("client menu has %d items, want 2", len(client))
	}
	for _, item := range client {
		if item.Href == "/lista-reservas" {
			t.Error("client menu must not link to the reservation list")
		}
	}
}
