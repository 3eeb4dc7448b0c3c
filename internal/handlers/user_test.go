package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"haven-backend/internal/middleware"
	"haven-backend/internal/models"
)

type fakeUserStore struct {
	user      *models.User
	getErr    error
	deleteErr error
	deleted   []uuid.UUID
}

func (f *fakeUserStore) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.user, nil
}

func (f *fakeUserStore) Delete(ctx context.Context, id uuid.UUID) error {
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deleted = append(f.deleted, id)
	return nil
}

func userRequest(method, target string, userID uuid.UUID) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	return req.WithContext(context.WithValue(req.Context(), middleware.UserIDKey, userID))
}

func TestGetMe_Success(t *testing.T) {
	userID := uuid.New()
	store := &fakeUserStore{user: &models.User{ID: userID, Email: "teen@example.com", DisplayName: "Sam"}}
	handler := NewUserHandler(store)

	rr := httptest.NewRecorder()
	handler.GetMe(rr, userRequest(http.MethodGet, "/api/user/me", userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}

	var resp models.User
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if resp.ID != userID || resp.Email != "teen@example.com" {
		t.Errorf("Unexpected user in response: %+v", resp)
	}
}

func TestGetMe_NotFound(t *testing.T) {
	store := &fakeUserStore{getErr: errors.New("no rows")}
	handler := NewUserHandler(store)

	rr := httptest.NewRecorder()
	handler.GetMe(rr, userRequest(http.MethodGet, "/api/user/me", uuid.New()))

	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", rr.Code)
	}
}

func TestDeleteMe_Success(t *testing.T) {
	userID := uuid.New()
	store := &fakeUserStore{}
	handler := NewUserHandler(store)

	rr := httptest.NewRecorder()
	handler.DeleteMe(rr, userRequest(http.MethodDelete, "/api/user/me", userID))

	if rr.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", rr.Code)
	}
	if len(store.deleted) != 1 || store.deleted[0] != userID {
		t.Errorf("Expected account %s to be deleted, got %v", userID, store.deleted)
	}
}

func TestDeleteMe_StoreFailure(t *testing.T) {
	store := &fakeUserStore{deleteErr: errors.New("connection reset")}
	handler := NewUserHandler(store)

	rr := httptest.NewRecorder()
	handler.DeleteMe(rr, userRequest(http.MethodDelete, "/api/user/me", uuid.New()))

	if rr.Code != http.StatusInternalServerError {
		t.Errorf("Expected status 500, got %d", rr.Code)
	}
	if len(store.deleted) != 0 {
		t.Error("Failed delete must not be recorded")
	}
}
