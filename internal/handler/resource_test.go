package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// postJSON exercises a handler's validation path; no repository is wired,
// so any request that passes validation would panic and fail the test.
func postJSON(t *testing.T, fn echo.HandlerFunc, body string) (int, map[string]interface{}) {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	require.NoError(t, fn(c))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return rec.Code, resp
}

func TestEmployeeValidation(t *testing.T) {
	h := &ResourceHandler{}

	code, resp := postJSON(t, h.CreateEmployee, `{"first_name":"Kim"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.NotEmpty(t, resp["error"])

	code, _ = postJSON(t, h.CreateEmployee,
		`{"code":"E1","first_name":"Kim","last_name":"Osei","email":"k@example.com","status":"RETIRED"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = postJSON(t, h.CreateEmployee,
		`{"code":"E1","first_name":"Kim","last_name":"Osei","email":"k@example.com","hire_date":"31-01-2024"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestAssignmentValidation(t *testing.T) {
	h := &ResourceHandler{}

	code, _ := postJSON(t, h.CreateAssignment, `{"employee_id":1,"project_id":0,"allocation":50}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := postJSON(t, h.CreateAssignment, `{"employee_id":1,"project_id":2,"allocation":150}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "allocation")

	code, resp = postJSON(t, h.CreateAssignment,
		`{"employee_id":1,"project_id":2,"allocation":50,"start_date":"2024-06-01","end_date":"2024-05-01"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "end_date")
}

func TestBillingValidation(t *testing.T) {
	h := &ResourceHandler{}

	code, resp := postJSON(t, h.CreateBillingRecord, `{"project_id":1,"period":"2024-13","amount":10}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "period")

	code, _ = postJSON(t, h.CreateBillingRecord, `{"project_id":1,"period":"2024-06","amount":-5}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = postJSON(t, h.CreateBillingRecord, `{"project_id":1,"period":"2024-06","amount":10,"currency":"DOLLARS"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = postJSON(t, h.CreateBillingRecord, `{"project_id":1,"period":"2024-06","amount":10,"status":"VOID"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestProjectValidation(t *testing.T) {
	h := &ResourceHandler{}

	code, _ := postJSON(t, h.CreateProject, `{"name":"Apollo"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := postJSON(t, h.CreateProject, `{"code":"P1","name":"Apollo","status":"CANCELLED"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "status")
}

func TestCandidateValidation(t *testing.T) {
	h := &ResourceHandler{}

	code, _ := postJSON(t, h.CreateCandidate, `{"full_name":"Kim Osei"}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, resp := postJSON(t, h.CreateCandidate,
		`{"full_name":"Kim Osei","email":"k@example.com","stage":"GHOSTED"}`)
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, resp["error"], "stage")
}

func TestDeliveryValidation(t *testing.T) {
	h := &ResourceHandler{}

	code, _ := postJSON(t, h.CreateDelivery, `{"project_id":1}`)
	assert.Equal(t, http.StatusBadRequest, code)

	code, _ = postJSON(t, h.CreateDelivery, `{"project_id":1,"title":"Drop 1","status":"SHIPPED"}`)
	assert.Equal(t, http.StatusBadRequest, code)
}
