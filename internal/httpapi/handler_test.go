package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pmuigai-sys/hosq/internal/models"
	"github.com/pmuigai-sys/hosq/internal/store"
)

type fakeStore struct {
	registerFn       func(ctx context.Context, input store.RegisterInput) (models.QueueEntry, error)
	getEntryFn       func(ctx context.Context, entryID string) (models.QueueEntry, error)
	listEntriesFn    func(ctx context.Context, stageID, status string) ([]models.QueueEntry, error)
	callFn           func(ctx context.Context, input store.CallInput) (models.QueueEntry, error)
	completeFn       func(ctx context.Context, input store.CompleteInput) (models.QueueEntry, error)
	flagFn           func(ctx context.Context, input store.FlagInput) error
	listHistoryFn    func(ctx context.Context, entryID string) ([]models.HistoryRecord, error)
	listSmsLogsFn    func(ctx context.Context, entryID string) ([]models.SmsLog, error)
	createStageFn    func(ctx context.Context, stage models.Stage) (models.Stage, error)
	listStagesFn     func(ctx context.Context, activeOnly bool) ([]models.Stage, error)
	setStageActiveFn func(ctx context.Context, stageID string, active bool) error
	createFlagFn     func(ctx context.Context, flag models.EmergencyFlag) (models.EmergencyFlag, error)
	listFlagsFn      func(ctx context.Context, activeOnly bool) ([]models.EmergencyFlag, error)
	setFlagActiveFn  func(ctx context.Context, flagID string, active bool) error
	createStaffFn    func(ctx context.Context, input store.CreateStaffInput) (models.StaffRole, error)
	listStaffFn      func(ctx context.Context) ([]models.StaffRole, error)
	setStaffActiveFn func(ctx context.Context, userID string, active bool) error
	authFn           func(ctx context.Context, userID, secret string) (models.StaffRole, error)
}

func (f fakeStore) Register(ctx context.Context, input store.RegisterInput) (models.QueueEntry, error) {
	if f.registerFn == nil {
		return models.QueueEntry{}, nil
	}
	return f.registerFn(ctx, input)
}

func (f fakeStore) GetEntry(ctx context.Context, entryID string) (models.QueueEntry, error) {
	if f.getEntryFn == nil {
		return models.QueueEntry{}, nil
	}
	return f.getEntryFn(ctx, entryID)
}

func (f fakeStore) ListEntries(ctx context.Context, stageID, status string) ([]models.QueueEntry, error) {
	if f.listEntriesFn == nil {
		return nil, nil
	}
	return f.listEntriesFn(ctx, stageID, status)
}

func (f fakeStore) CallNext(ctx context.Context, input store.CallInput) (models.QueueEntry, error) {
	if f.callFn == nil {
		return models.QueueEntry{}, nil
	}
	return f.callFn(ctx, input)
}

func (f fakeStore) CompleteStage(ctx context.Context, input store.CompleteInput) (models.QueueEntry, error) {
	if f.completeFn == nil {
		return models.QueueEntry{}, nil
	}
	return f.completeFn(ctx, input)
}

func (f fakeStore) AddEmergencyFlag(ctx context.Context, input store.FlagInput) error {
	if f.flagFn == nil {
		return nil
	}
	return f.flagFn(ctx, input)
}

func (f fakeStore) ListHistory(ctx context.Context, entryID string) ([]models.HistoryRecord, error) {
	if f.listHistoryFn == nil {
		return nil, nil
	}
	return f.listHistoryFn(ctx, entryID)
}

func (f fakeStore) ListSmsLogs(ctx context.Context, entryID string) ([]models.SmsLog, error) {
	if f.listSmsLogsFn == nil {
		return nil, nil
	}
	return f.listSmsLogsFn(ctx, entryID)
}

func (f fakeStore) CreateStage(ctx context.Context, stage models.Stage) (models.Stage, error) {
	if f.createStageFn == nil {
		return stage, nil
	}
	return f.createStageFn(ctx, stage)
}

func (f fakeStore) ListStages(ctx context.Context, activeOnly bool) ([]models.Stage, error) {
	if f.listStagesFn == nil {
		return nil, nil
	}
	return f.listStagesFn(ctx, activeOnly)
}

func (f fakeStore) SetStageActive(ctx context.Context, stageID string, active bool) error {
	if f.setStageActiveFn == nil {
		return nil
	}
	return f.setStageActiveFn(ctx, stageID, active)
}

func (f fakeStore) CreateFlag(ctx context.Context, flag models.EmergencyFlag) (models.EmergencyFlag, error) {
	if f.createFlagFn == nil {
		return flag, nil
	}
	return f.createFlagFn(ctx, flag)
}

func (f fakeStore) ListFlags(ctx context.Context, activeOnly bool) ([]models.EmergencyFlag, error) {
	if f.listFlagsFn == nil {
		return nil, nil
	}
	return f.listFlagsFn(ctx, activeOnly)
}

func (f fakeStore) SetFlagActive(ctx context.Context, flagID string, active bool) error {
	if f.setFlagActiveFn == nil {
		return nil
	}
	return f.setFlagActiveFn(ctx, flagID, active)
}

func (f fakeStore) CreateStaff(ctx context.Context, input store.CreateStaffInput) (models.StaffRole, error) {
	if f.createStaffFn == nil {
		return models.StaffRole{}, nil
	}
	return f.createStaffFn(ctx, input)
}

func (f fakeStore) ListStaff(ctx context.Context) ([]models.StaffRole, error) {
	if f.listStaffFn == nil {
		return nil, nil
	}
	return f.listStaffFn(ctx)
}

func (f fakeStore) SetStaffActive(ctx context.Context, userID string, active bool) error {
	if f.setStaffActiveFn == nil {
		return nil
	}
	return f.setStaffActiveFn(ctx, userID, active)
}

func (f fakeStore) AuthenticateStaff(ctx context.Context, userID, secret string) (models.StaffRole, error) {
	if f.authFn == nil {
		return models.StaffRole{}, store.ErrInvalidCredentials
	}
	return f.authFn(ctx, userID, secret)
}

const (
	testEntryID = "11111111-1111-1111-1111-111111111111"
	testStageID = "22222222-2222-2222-2222-222222222222"
	testFlagID  = "33333333-3333-3333-3333-333333333333"
	testStaffID = "44444444-4444-4444-4444-444444444444"
)

func staffAuth(role string) func(ctx context.Context, userID, secret string) (models.StaffRole, error) {
	return func(ctx context.Context, userID, secret string) (models.StaffRole, error) {
		if userID != testStaffID || secret != "hunter22" {
			return models.StaffRole{}, store.ErrInvalidCredentials
		}
		return models.StaffRole{UserID: userID, Role: role, IsActive: true}, nil
	}
}

func serve(st fakeStore, req *http.Request) *httptest.ResponseRecorder {
	h := NewHandler(st)
	resp := httptest.NewRecorder()
	AuthMiddleware(st, h.Routes()).ServeHTTP(resp, req)
	return resp
}

func withStaffToken(req *http.Request) *http.Request {
	req.Header.Set("Authorization", "Bearer "+testStaffID+".hunter22")
	return req
}

func TestRegisterSuccess(t *testing.T) {
	checkedIn := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	st := fakeStore{
		registerFn: func(ctx context.Context, input store.RegisterInput) (models.QueueEntry, error) {
			if input.PhoneNumber != "+6281234567890" || input.FullName != "Jane Doe" {
				t.Fatalf("unexpected register input: %+v", input)
			}
			position := 3
			stageID := testStageID
			return models.QueueEntry{
				EntryID:         testEntryID,
				QueueNumber:     "Q-003",
				Status:          models.StatusWaiting,
				CurrentStageID:  &stageID,
				PositionInQueue: &position,
				CheckedInAt:     checkedIn,
			}, nil
		},
	}

	body, _ := json.Marshal(map[string]interface{}{
		"phone_number": "+6281234567890",
		"full_name":    "Jane Doe",
		"age":          34,
		"visit_reason": "checkup",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))

	resp := serve(st, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}

	var entry models.QueueEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if entry.QueueNumber != "Q-003" || entry.Status != models.StatusWaiting {
		t.Fatalf("unexpected entry response: %+v", entry)
	}
	if entry.PositionInQueue == nil || *entry.PositionInQueue != 3 {
		t.Fatalf("expected position 3, got %+v", entry.PositionInQueue)
	}
}

func TestRegisterValidation(t *testing.T) {
	cases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"missing phone", map[string]interface{}{"full_name": "Jane Doe"}},
		{"missing name", map[string]interface{}{"phone_number": "+6281234567890"}},
		{"short phone", map[string]interface{}{"phone_number": "12345", "full_name": "Jane Doe"}},
		{"letters in phone", map[string]interface{}{"phone_number": "+62812abc7890", "full_name": "Jane Doe"}},
		{"negative age", map[string]interface{}{"phone_number": "+6281234567890", "full_name": "Jane Doe", "age": -1}},
		{"unknown field", map[string]interface{}{"phone_number": "+6281234567890", "full_name": "Jane Doe", "extra": true}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.payload)
			req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))
			resp := serve(fakeStore{}, req)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", resp.Code)
			}
		})
	}
}

func TestRegisterNoStagesConfigured(t *testing.T) {
	st := fakeStore{
		registerFn: func(ctx context.Context, input store.RegisterInput) (models.QueueEntry, error) {
			return models.QueueEntry{}, store.ErrNoStagesConfigured
		},
	}

	body, _ := json.Marshal(map[string]string{
		"phone_number": "+6281234567890",
		"full_name":    "Jane Doe",
	})
	req := httptest.NewRequest(http.MethodPost, "/api/register", bytes.NewReader(body))

	resp := serve(st, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}

	var errResp errorResponse
	if err := json.NewDecoder(resp.Body).Decode(&errResp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if errResp.Error.Code != "no_stages_configured" {
		t.Fatalf("unexpected error code: %s", errResp.Error.Code)
	}
}

func TestGetEntryPublic(t *testing.T) {
	st := fakeStore{
		getEntryFn: func(ctx context.Context, entryID string) (models.QueueEntry, error) {
			if entryID != testEntryID {
				t.Fatalf("unexpected entry id: %s", entryID)
			}
			return models.QueueEntry{EntryID: entryID, Status: models.StatusWaiting}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/entries/"+testEntryID, nil)
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestGetEntryNotFound(t *testing.T) {
	st := fakeStore{
		getEntryFn: func(ctx context.Context, entryID string) (models.QueueEntry, error) {
			return models.QueueEntry{}, store.ErrEntryNotFound
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/entries/"+testEntryID, nil)
	resp := serve(st, req)
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestListEntriesRequiresAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	resp := serve(fakeStore{}, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestListEntriesSuccess(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleDoctor),
		listEntriesFn: func(ctx context.Context, stageID, status string) ([]models.QueueEntry, error) {
			if stageID != testStageID || status != models.StatusWaiting {
				t.Fatalf("unexpected filter: stage=%s status=%s", stageID, status)
			}
			return []models.QueueEntry{{EntryID: testEntryID}}, nil
		},
	}

	req := withStaffToken(httptest.NewRequest(http.MethodGet, "/api/entries?stage_id="+testStageID+"&status=waiting", nil))
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCallActionSuccess(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleDoctor),
		callFn: func(ctx context.Context, input store.CallInput) (models.QueueEntry, error) {
			if input.EntryID != testEntryID {
				t.Fatalf("unexpected entry id: %s", input.EntryID)
			}
			if input.ActorUserID != testStaffID {
				t.Fatalf("call should carry the acting staff id, got %q", input.ActorUserID)
			}
			return models.QueueEntry{EntryID: input.EntryID, Status: models.StatusInService}, nil
		},
	}

	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/entries/"+testEntryID+"/actions/call", nil))
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var entry models.QueueEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if entry.Status != models.StatusInService {
		t.Fatalf("expected in_service, got %s", entry.Status)
	}
}

func TestCallActionAlreadyInService(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleDoctor),
		callFn: func(ctx context.Context, input store.CallInput) (models.QueueEntry, error) {
			return models.QueueEntry{}, store.ErrInvalidTransition
		},
	}

	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/entries/"+testEntryID+"/actions/call", nil))
	resp := serve(st, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestCompleteActionDefaultsToAdvance(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleDoctor),
		completeFn: func(ctx context.Context, input store.CompleteInput) (models.QueueEntry, error) {
			if !input.Advance {
				t.Fatalf("complete should advance by default")
			}
			return models.QueueEntry{EntryID: input.EntryID, Status: models.StatusWaiting}, nil
		},
	}

	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/entries/"+testEntryID+"/actions/complete", bytes.NewReader([]byte(`{}`))))
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCompleteActionFinal(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleDoctor),
		completeFn: func(ctx context.Context, input store.CompleteInput) (models.QueueEntry, error) {
			if input.Advance {
				t.Fatalf("expected advance=false")
			}
			completedAt := input.OccurredAt
			return models.QueueEntry{EntryID: input.EntryID, Status: models.StatusCompleted, CompletedAt: &completedAt}, nil
		},
	}

	body := []byte(`{"advance":false}`)
	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/entries/"+testEntryID+"/actions/complete", bytes.NewReader(body)))
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var entry models.QueueEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if entry.Status != models.StatusCompleted || entry.CompletedAt == nil {
		t.Fatalf("unexpected completed entry: %+v", entry)
	}
}

func TestFlagActionSuccess(t *testing.T) {
	flagged := false
	st := fakeStore{
		authFn: staffAuth(models.RoleReceptionist),
		flagFn: func(ctx context.Context, input store.FlagInput) error {
			if input.FlagID != testFlagID {
				t.Fatalf("unexpected flag id: %s", input.FlagID)
			}
			flagged = true
			return nil
		},
		getEntryFn: func(ctx context.Context, entryID string) (models.QueueEntry, error) {
			return models.QueueEntry{EntryID: entryID, HasEmergencyFlag: true}, nil
		},
	}

	body, _ := json.Marshal(map[string]string{"flag_id": testFlagID})
	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/entries/"+testEntryID+"/actions/flag", bytes.NewReader(body)))
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if !flagged {
		t.Fatalf("flag action did not reach the store")
	}

	var entry models.QueueEntry
	if err := json.NewDecoder(resp.Body).Decode(&entry); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !entry.HasEmergencyFlag {
		t.Fatalf("expected flagged entry in response")
	}
}

func TestFlagActionInactiveFlag(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleReceptionist),
		flagFn: func(ctx context.Context, input store.FlagInput) error {
			return store.ErrInvalidTransition
		},
	}

	body, _ := json.Marshal(map[string]string{"flag_id": testFlagID})
	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/entries/"+testEntryID+"/actions/flag", bytes.NewReader(body)))
	resp := serve(st, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestEntryHistoryPublic(t *testing.T) {
	st := fakeStore{
		listHistoryFn: func(ctx context.Context, entryID string) ([]models.HistoryRecord, error) {
			return []models.HistoryRecord{{RecordID: "r1", QueueEntryID: entryID}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/entries/"+testEntryID+"/history", nil)
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestEntrySmsLogsRequireAuth(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/entries/"+testEntryID+"/sms-logs", nil)
	resp := serve(fakeStore{}, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestListStagesPublic(t *testing.T) {
	st := fakeStore{
		listStagesFn: func(ctx context.Context, activeOnly bool) ([]models.Stage, error) {
			if !activeOnly {
				t.Fatalf("public listing must be active-only")
			}
			return []models.Stage{{StageID: testStageID, Name: "registration", OrderNumber: 1, IsActive: true}}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/api/stages", nil)
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
}

func TestCreateStageRequiresAdmin(t *testing.T) {
	st := fakeStore{authFn: staffAuth(models.RoleDoctor)}

	body, _ := json.Marshal(map[string]interface{}{"name": "triage", "order_number": 2})
	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/stages", bytes.NewReader(body)))
	resp := serve(st, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestCreateStageSuccess(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleAdmin),
		createStageFn: func(ctx context.Context, stage models.Stage) (models.Stage, error) {
			if stage.Name != "triage" || stage.OrderNumber != 2 || !stage.IsActive {
				t.Fatalf("unexpected stage input: %+v", stage)
			}
			stage.StageID = testStageID
			return stage, nil
		},
	}

	body, _ := json.Marshal(map[string]interface{}{"name": "triage", "order_number": 2})
	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/stages", bytes.NewReader(body)))
	resp := serve(st, req)
	if resp.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestCreateStageDuplicate(t *testing.T) {
	st := fakeStore{
		authFn: staffAuth(models.RoleAdmin),
		createStageFn: func(ctx context.Context, stage models.Stage) (models.Stage, error) {
			return models.Stage{}, store.ErrDuplicateStage
		},
	}

	body, _ := json.Marshal(map[string]interface{}{"name": "triage", "order_number": 2})
	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/stages", bytes.NewReader(body)))
	resp := serve(st, req)
	if resp.Code != http.StatusConflict {
		t.Fatalf("expected status 409, got %d", resp.Code)
	}
}

func TestSetStageActive(t *testing.T) {
	var gotActive bool
	st := fakeStore{
		authFn: staffAuth(models.RoleAdmin),
		setStageActiveFn: func(ctx context.Context, stageID string, active bool) error {
			if stageID != testStageID {
				t.Fatalf("unexpected stage id: %s", stageID)
			}
			gotActive = active
			return nil
		},
	}

	body := []byte(`{"active":false}`)
	req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/stages/"+testStageID+"/actions/set-active", bytes.NewReader(body)))
	resp := serve(st, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", resp.Code, resp.Body.String())
	}
	if gotActive {
		t.Fatalf("expected active=false to reach the store")
	}
}

func TestCreateStaffValidation(t *testing.T) {
	st := fakeStore{authFn: staffAuth(models.RoleAdmin)}

	cases := []struct {
		name    string
		payload map[string]interface{}
	}{
		{"bad role", map[string]interface{}{"role": "janitor", "secret": "longenough"}},
		{"short secret", map[string]interface{}{"role": "doctor", "secret": "short"}},
		{"bad user id", map[string]interface{}{"user_id": "not-a-uuid", "role": "doctor", "secret": "longenough"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			body, _ := json.Marshal(tc.payload)
			req := withStaffToken(httptest.NewRequest(http.MethodPost, "/api/staff", bytes.NewReader(body)))
			resp := serve(st, req)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", resp.Code)
			}
		})
	}
}

func TestInvalidBearerToken(t *testing.T) {
	st := fakeStore{authFn: staffAuth(models.RoleDoctor)}

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	req.Header.Set("Authorization", "Bearer "+testStaffID+".wrongsecret")
	resp := serve(st, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected status 401, got %d", resp.Code)
	}
}

func TestInactiveStaffForbidden(t *testing.T) {
	st := fakeStore{
		authFn: func(ctx context.Context, userID, secret string) (models.StaffRole, error) {
			return models.StaffRole{}, store.ErrAccessDenied
		},
	}

	req := withStaffToken(httptest.NewRequest(http.MethodGet, "/api/entries", nil))
	resp := serve(st, req)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", resp.Code)
	}
}

func TestInvalidEntryID(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/entries/not-a-uuid", nil)
	resp := serve(fakeStore{}, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
}
