package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bazario/smart-recs/internal/models"
	"github.com/google/uuid"
)

func postBehavior(t *testing.T, router http.Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest("POST", "/behavior", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestTrackBehavior_Accepted(t *testing.T) {
	t.Parallel()

	var inserted *models.BehaviorEvent
	behaviors := &mockBehaviorRepo{
		insertFunc: func(ctx context.Context, event *models.BehaviorEvent) error {
			inserted = event
			return nil
		},
	}
	router := newTestRouter(behaviors, &mockListingRepo{})

	userID := uuid.New()
	listingID := uuid.New()
	body, _ := json.Marshal(TrackBehaviorRequest{
		UserID:    userID.String(),
		ListingID: listingID.String(),
		Action:    "favorite",
		Category:  "Electronics",
	})

	rec := postBehavior(t, router, string(body))
	if rec.Code != http.StatusAccepted {
		t.Fatalf("expected status 202, got %d: %s", rec.Code, rec.Body.String())
	}

	env := decodeEnvelope(t, rec)
	if !env.Success {
		t.Error("expected a success envelope")
	}
	if !bytes.Contains(env.Data, []byte(`"tracked":true`)) {
		t.Errorf("expected tracked acknowledgement, got %s", env.Data)
	}

	if inserted == nil {
		t.Fatal("expected the event inserted")
	}
	if inserted.UserID != userID || inserted.ListingID != listingID {
		t.Errorf("unexpected event identifiers %+v", inserted)
	}
	if inserted.Action != models.BehaviorActionFavorite {
		t.Errorf("expected favorite action, got %s", inserted.Action)
	}
	if inserted.Category != "Electronics" {
		t.Errorf("expected category carried through, got %q", inserted.Category)
	}
	if inserted.CreatedAt.IsZero() {
		t.Error("expected a default timestamp")
	}
}

func TestTrackBehavior_ValidationFailures(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"user_id": `},
		{"missing user", `{"listing_id":"` + uuid.NewString() + `","action":"view"}`},
		{"missing listing", `{"user_id":"` + uuid.NewString() + `","action":"view"}`},
		{"non-uuid user", `{"user_id":"abc","listing_id":"` + uuid.NewString() + `","action":"view"}`},
		{"unknown action", `{"user_id":"` + uuid.NewString() + `","listing_id":"` + uuid.NewString() + `","action":"teleport"}`},
		{"negative price", `{"user_id":"` + uuid.NewString() + `","listing_id":"` + uuid.NewString() + `","action":"view","price":-5}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			inserted := false
			behaviors := &mockBehaviorRepo{
				insertFunc: func(ctx context.Context, event *models.BehaviorEvent) error {
					inserted = true
					return nil
				},
			}
			router := newTestRouter(behaviors, &mockListingRepo{})

			rec := postBehavior(t, router, tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("expected status 400, got %d: %s", rec.Code, rec.Body.String())
			}
			if inserted {
				t.Error("expected no insert for an invalid request")
			}
		})
	}
}

func TestTrackBehavior_StoreFailureStillAccepted(t *testing.T) {
	t.Parallel()

	behaviors := &mockBehaviorRepo{
		insertFunc: func(ctx context.Context, event *models.BehaviorEvent) error {
			return context.DeadlineExceeded
		},
	}
	router := newTestRouter(behaviors, &mockListingRepo{})

	body := `{"user_id":"` + uuid.NewString() + `","listing_id":"` + uuid.NewString() + `","action":"view"}`
	rec := postBehavior(t, router, body)
	if rec.Code != http.StatusAccepted {
		t.Errorf("expected best-effort tracking to answer 202, got %d", rec.Code)
	}
}
