package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/erazemk/oprema/internal/auth"
	"github.com/erazemk/oprema/internal/clock"
	"github.com/erazemk/oprema/internal/club"
	"github.com/erazemk/oprema/internal/db"
	"github.com/erazemk/oprema/internal/model"
	"github.com/erazemk/oprema/internal/store"
	"golang.org/x/crypto/bcrypt"
)

const testJWTSecret = "test-secret"

type testServer struct {
	*httptest.Server
	token string
	now   time.Time
}

func setupTestServer(t *testing.T) *testServer {
	t.Helper()
	database := db.NewTestDB(t)
	repo := store.NewSQLStore(database)
	clk := clock.NewFixed(time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC))

	roster := club.NewRoster(repo, clk)
	svc := Services{
		Roster:    roster,
		Inventory: club.NewInventory(repo, roster, clk),
		Schedule:  club.NewSchedule(repo, clk),
	}

	server := httptest.NewServer(NewRouter(database, testJWTSecret, svc))
	t.Cleanup(server.Close)

	// Create admin user.
	ctx := context.Background()
	hash, _ := bcrypt.GenerateFromPassword([]byte("password"), bcrypt.MinCost)
	if _, err := store.CreateUser(ctx, database, "admin", string(hash), model.RoleAdmin); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}

	return &testServer{Server: server, token: login(t, server.URL, "admin", "password"), now: clk.Now()}
}

func login(t *testing.T, url, username, password string) string {
	t.Helper()
	body, _ := json.Marshal(map[string]string{"username": username, "password": password})
	resp, err := http.Post(url+"/api/auth/login", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("login request: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d", resp.StatusCode)
	}

	var loginResp loginResponse
	json.NewDecoder(resp.Body).Decode(&loginResp)
	if loginResp.Token == "" {
		t.Fatal("empty token from login")
	}
	return loginResp.Token
}

func authRequest(method, url, token string, body any) (*http.Request, error) {
	var bodyReader *bytes.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		bodyReader = bytes.NewReader(data)
	} else {
		bodyReader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, url, bodyReader)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// do sends an authenticated request, checks the status and decodes the
// response into out when out is non-nil.
func (s *testServer) do(t *testing.T, method, path string, body any, want int, out any) {
	t.Helper()
	req, err := authRequest(method, s.URL+path, s.token, body)
	if err != nil {
		t.Fatalf("building request: %v", err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != want {
		var msg map[string]any
		json.NewDecoder(resp.Body).Decode(&msg)
		t.Fatalf("%s %s: expected %d, got %d (%v)", method, path, want, resp.StatusCode, msg)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("decoding %s %s: %v", method, path, err)
		}
	}
}

func TestLoginEndpoint(t *testing.T) {
	server := setupTestServer(t)

	tests := []struct {
		name     string
		username string
		password string
		want     int
	}{
		{"wrong password", "admin", "wrong", http.StatusUnauthorized},
		{"unknown user", "nobody", "password", http.StatusUnauthorized},
		{"empty", "", "", http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(map[string]string{"username": tt.username, "password": tt.password})
			resp, err := http.Post(server.URL+"/api/auth/login", "application/json", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("login request: %v", err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("expected %d, got %d", tt.want, resp.StatusCode)
			}
		})
	}
}

func TestLogoutRevokesToken(t *testing.T) {
	server := setupTestServer(t)

	server.do(t, "GET", "/api/items", nil, http.StatusOK, nil)
	server.do(t, "POST", "/api/auth/logout", nil, http.StatusOK, nil)
	server.do(t, "GET", "/api/items", nil, http.StatusUnauthorized, nil)
}

func TestUnauthenticatedAccess(t *testing.T) {
	server := setupTestServer(t)

	for _, path := range []string{"/api/items", "/api/members", "/api/matches", "/api/users"} {
		resp, err := http.Get(server.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s: expected 401, got %d", path, resp.StatusCode)
		}
	}
}

func TestRoleBasedAccess(t *testing.T) {
	server := setupTestServer(t)

	userToken, _, err := auth.GenerateToken(testJWTSecret,
		&model.User{ID: 2, Username: "user1", Role: model.RoleUser}, time.Now())
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}
	user := &testServer{Server: server.Server, token: userToken}

	// Regular users may read but not edit the inventory.
	user.do(t, "GET", "/api/items", nil, http.StatusOK, nil)
	user.do(t, "POST", "/api/items", map[string]any{"name": "Ball"}, http.StatusForbidden, nil)
	user.do(t, "POST", "/api/matches", map[string]any{"date": "2024-05-01", "time": "10:00"}, http.StatusForbidden, nil)
	user.do(t, "GET", "/api/users", nil, http.StatusForbidden, nil)
}

func TestMembersAPIFlow(t *testing.T) {
	server := setupTestServer(t)

	var m model.Member
	server.do(t, "POST", "/api/members", map[string]string{"type": "player", "name": "Ana", "category": "U12"},
		http.StatusCreated, &m)
	if m.ID == "" || m.Name != "Ana" {
		t.Fatalf("unexpected member: %+v", m)
	}

	server.do(t, "POST", "/api/members", map[string]string{"type": "referee", "name": "X"}, http.StatusBadRequest, nil)

	var members []model.Member
	server.do(t, "GET", "/api/members?type=player", nil, http.StatusOK, &members)
	if len(members) != 1 {
		t.Fatalf("expected 1 player, got %d", len(members))
	}
	server.do(t, "GET", "/api/members?type=coach", nil, http.StatusOK, &members)
	if len(members) != 0 {
		t.Fatalf("expected 0 coaches, got %d", len(members))
	}

	path := "/api/members/player/" + m.ID
	server.do(t, "PUT", path, map[string]string{"type": "player", "name": "Ana K."}, http.StatusOK, &m)
	if m.Name != "Ana K." {
		t.Errorf("name not updated: %q", m.Name)
	}
	server.do(t, "DELETE", path, nil, http.StatusOK, nil)
	server.do(t, "GET", path, nil, http.StatusNotFound, nil)
}

func TestItemsAPIFlow(t *testing.T) {
	server := setupTestServer(t)

	var item club.ItemView
	server.do(t, "POST", "/api/items", map[string]any{"name": "Ball", "category": "Training", "quantity": 2},
		http.StatusCreated, &item)
	if item.Status != model.ItemStatusNew || item.Remaining != 2 {
		t.Fatalf("unexpected item: %+v", item)
	}

	server.do(t, "POST", "/api/items", map[string]any{"name": " "}, http.StatusBadRequest, nil)
	server.do(t, "GET", "/api/items/missing", nil, http.StatusNotFound, nil)

	var items []club.ItemView
	server.do(t, "GET", "/api/items?category=Training", nil, http.StatusOK, &items)
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}

	path := "/api/items/" + item.ID
	server.do(t, "PUT", path, map[string]any{"name": "Ball", "status": model.ItemStatusWorn, "quantity": 3},
		http.StatusOK, &item)
	if item.Quantity != 3 || item.Status != model.ItemStatusWorn {
		t.Errorf("item not updated: %+v", item)
	}

	server.do(t, "DELETE", path, nil, http.StatusOK, nil)
	server.do(t, "GET", path, nil, http.StatusNotFound, nil)
}

func TestDistributionConfirmFlow(t *testing.T) {
	server := setupTestServer(t)

	var player model.Member
	server.do(t, "POST", "/api/members", map[string]string{"type": "player", "name": "Ana"}, http.StatusCreated, &player)

	var item club.ItemView
	server.do(t, "POST", "/api/items", map[string]any{"name": "Bib", "quantity": 1}, http.StatusCreated, &item)
	path := "/api/items/" + item.ID + "/distributions"

	server.do(t, "POST", path, map[string]any{"type": "player", "target_id": player.ID, "quantity": 1},
		http.StatusCreated, &item)
	if item.Remaining != 0 || len(item.Distributions) != 1 {
		t.Fatalf("unexpected item after distribution: %+v", item)
	}
	if got := item.Distributions[0].DisplayName; got != "Ana" {
		t.Errorf("display name = %q, want Ana", got)
	}

	// Stock is exhausted: the next distribution needs confirmation.
	var warning struct {
		Warning string          `json:"warning"`
		Kind    club.PromptKind `json:"kind"`
		Details map[string]any  `json:"details"`
	}
	body := map[string]any{"type": "player", "target_id": player.ID, "quantity": 2}
	server.do(t, "POST", path, body, http.StatusConflict, &warning)
	if warning.Kind != club.PromptOverAllocation {
		t.Errorf("kind = %q, want %q", warning.Kind, club.PromptOverAllocation)
	}

	server.do(t, "GET", "/api/items/"+item.ID, nil, http.StatusOK, &item)
	if len(item.Distributions) != 1 {
		t.Fatalf("declined distribution was stored: %+v", item.Distributions)
	}

	body["confirm"] = true
	server.do(t, "POST", path, body, http.StatusCreated, &item)
	if item.Remaining != -2 {
		t.Errorf("remaining = %d, want -2", item.Remaining)
	}

	server.do(t, "POST", path, map[string]any{"type": "player", "target_id": "ghost", "quantity": 1},
		http.StatusBadRequest, nil)

	server.do(t, "DELETE", path+"/0", nil, http.StatusOK, &item)
	if len(item.Distributions) != 1 || item.Distributions[0].Quantity != 2 {
		t.Errorf("unexpected distributions after return: %+v", item.Distributions)
	}
	server.do(t, "DELETE", path+"/5", nil, http.StatusBadRequest, nil)
	server.do(t, "DELETE", path+"/x", nil, http.StatusBadRequest, nil)
}

func TestBatchesAPIFlow(t *testing.T) {
	server := setupTestServer(t)

	var created batchResponse
	server.do(t, "POST", "/api/batches", map[string]any{
		"base_name": "Jersey", "size": "M", "start": 1, "end": 5, "exclusions": []int{3},
	}, http.StatusCreated, &created)
	if created.Intended != 4 || created.Succeeded != 4 || len(created.Items) != 4 {
		t.Fatalf("unexpected batch: %+v", created)
	}

	server.do(t, "POST", "/api/batches", map[string]any{
		"base_name": "Jersey", "start": 1, "end": 1, "exclusions": []int{1},
	}, http.StatusBadRequest, nil)

	var sum batchSummaryResponse
	server.do(t, "GET", "/api/batches/"+created.BatchID, nil, http.StatusOK, &sum)
	if sum.Label != "Jersey #1-5" || sum.TotalQuantity != 4 {
		t.Errorf("unexpected summary: label %q total %d", sum.Label, sum.TotalQuantity)
	}

	var items []club.ItemView
	server.do(t, "GET", "/api/items?batch="+created.BatchID, nil, http.StatusOK, &items)
	if len(items) != 4 {
		t.Errorf("expected 4 batch items, got %d", len(items))
	}

	path := "/api/batches/" + created.BatchID
	server.do(t, "DELETE", path, nil, http.StatusConflict, nil)
	server.do(t, "GET", path, nil, http.StatusOK, nil)

	var deleted batchDeleteResponse
	server.do(t, "DELETE", path+"?confirm=true", nil, http.StatusOK, &deleted)
	if deleted.Deleted != 4 || len(deleted.Failures) != 0 {
		t.Errorf("unexpected delete result: %+v", deleted)
	}
	server.do(t, "GET", path, nil, http.StatusNotFound, nil)
}

func TestMatchesAPIFlow(t *testing.T) {
	server := setupTestServer(t)

	first := map[string]any{
		"date": "2024-06-01", "time": "10:00", "opponent": "Rivals", "field_ids": []string{"A"},
	}
	var m model.Match
	server.do(t, "POST", "/api/matches", first, http.StatusCreated, &m)
	if m.ID == "" {
		t.Fatal("match has no ID")
	}

	tests := []struct {
		name string
		body map[string]any
		want int
	}{
		{"bad date", map[string]any{"date": "01.06.2024", "time": "10:00"}, http.StatusBadRequest},
		{"bad time", map[string]any{"date": "2024-06-01", "time": "25:00"}, http.StatusBadRequest},
		{"duplicate referee", map[string]any{
			"date": "2024-06-01", "time": "14:00", "ref_center": "r1", "ref_asst1": "r1",
		}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server.do(t, "POST", "/api/matches", tt.body, tt.want, nil)
		})
	}

	clash := map[string]any{
		"date": "2024-06-01", "time": "10:30", "opponent": "Others", "field_ids": []string{"A", "B"},
	}
	var check conflictsResponse
	server.do(t, "POST", "/api/matches/conflicts", clash, http.StatusOK, &check)
	if len(check.Conflicts) != 1 || check.Conflicts[0].ID != m.ID {
		t.Fatalf("unexpected conflicts: %+v", check.Conflicts)
	}

	server.do(t, "POST", "/api/matches", clash, http.StatusConflict, nil)

	var matches []model.Match
	server.do(t, "GET", "/api/matches?date=2024-06-01", nil, http.StatusOK, &matches)
	if len(matches) != 1 {
		t.Fatalf("declined match was stored: %d matches", len(matches))
	}

	clash["confirm"] = true
	var second model.Match
	server.do(t, "POST", "/api/matches", clash, http.StatusCreated, &second)

	// Moving the first match later clears the clash.
	first["time"] = "12:00"
	server.do(t, "PUT", "/api/matches/"+m.ID, first, http.StatusOK, &m)
	if m.Time != "12:00" {
		t.Errorf("time = %q, want 12:00", m.Time)
	}

	server.do(t, "PUT", "/api/matches/missing", first, http.StatusNotFound, nil)
	server.do(t, "DELETE", "/api/matches/"+second.ID, nil, http.StatusOK, nil)
	server.do(t, "DELETE", "/api/matches/"+second.ID, nil, http.StatusNotFound, nil)
}

func TestUsersLastAdmin(t *testing.T) {
	server := setupTestServer(t)

	var users []model.User
	server.do(t, "GET", "/api/users", nil, http.StatusOK, &users)
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	adminPath := fmt.Sprintf("/api/users/%d", users[0].ID)

	server.do(t, "PUT", adminPath, map[string]string{"role": model.RoleUser}, http.StatusConflict, nil)

	var created model.User
	server.do(t, "POST", "/api/users", map[string]string{
		"username": "coach", "password": "longenough1", "role": model.RoleManager,
	}, http.StatusCreated, &created)
	server.do(t, "POST", "/api/users", map[string]string{
		"username": "coach", "password": "longenough1", "role": model.RoleManager,
	}, http.StatusConflict, nil)

	server.do(t, "DELETE", fmt.Sprintf("/api/users/%d", created.ID), nil, http.StatusOK, nil)
	server.do(t, "DELETE", adminPath, nil, http.StatusBadRequest, nil)
}
