package handlers_test

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/geocoder89/contactbook/internal/http/handlers"
	"github.com/gin-gonic/gin"
)

type bindPayload struct {
	Name  string `json:"name" binding:"required"`
	Email string `json:"email" binding:"required,email"`
	Age   int    `json:"age"`
}

type bindErrResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Details struct {
		JSON   string                `json:"json"`
		Fields []handlers.FieldError `json:"fields"`
	} `json:"details"`
}

func bindRouter() *gin.Engine {
	r := gin.New()

	r.POST("/bind", func(ctx *gin.Context) {
		var payload bindPayload

		if !handlers.BindJSON(ctx, &payload) {
			return
		}

		ctx.JSON(http.StatusOK, gin.H{"status": http.StatusOK})
	})

	return r
}

func TestBindJSON_Valid(t *testing.T) {
	r := bindRouter()

	w := doJSON(t, r, http.MethodPost, "/bind", `{"name":"Amy","email":"a@x.com","age":30}`)

	if w.Code != http.StatusOK {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}
}

func TestBindJSON_ReportsEveryFailedField(t *testing.T) {
	r := bindRouter()

	w := doJSON(t, r, http.MethodPost, "/bind", `{"age":30}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp bindErrResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v body=%s", err, w.Body.String())
	}

	if resp.Status != http.StatusBadRequest {
		t.Fatalf("body status %d should mirror HTTP status", resp.Status)
	}

	byField := map[string]handlers.FieldError{}

	for _, fe := range resp.Details.Fields {
		byField[fe.Field] = fe
	}

	// both failures are named with their json keys, not Go field names
	if fe, ok := byField["name"]; !ok || fe.Rule != "required" {
		t.Fatalf("missing required error for name: %+v", resp.Details.Fields)
	}

	if fe, ok := byField["email"]; !ok || fe.Rule != "required" {
		t.Fatalf("missing required error for email: %+v", resp.Details.Fields)
	}
}

func TestBindJSON_EmailFormat(t *testing.T) {
	r := bindRouter()

	w := doJSON(t, r, http.MethodPost, "/bind", `{"name":"Amy","email":"not-an-email"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp bindErrResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if len(resp.Details.Fields) != 1 || resp.Details.Fields[0].Field != "email" || resp.Details.Fields[0].Rule != "email" {
		t.Fatalf("expected a single email rule failure, got %+v", resp.Details.Fields)
	}
}

func TestBindJSON_MalformedJSON(t *testing.T) {
	r := bindRouter()

	w := doJSON(t, r, http.MethodPost, "/bind", `{"name":`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp bindErrResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if resp.Details.JSON != "invalid_json_syntax" {
		t.Fatalf("expected invalid_json_syntax, got %+v", resp.Details)
	}
}

func TestBindJSON_TypeMismatch(t *testing.T) {
	r := bindRouter()

	w := doJSON(t, r, http.MethodPost, "/bind", `{"name":"Amy","email":"a@x.com","age":"thirty"}`)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, body=%s", w.Code, w.Body.String())
	}

	var resp bindErrResponse

	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to unmarshal error response: %v", err)
	}

	if resp.Details.JSON != "invalid_json_type" {
		t.Fatalf("expected invalid_json_type, got %+v", resp.Details)
	}

	if len(resp.Details.Fields) != 1 || resp.Details.Fields[0].Field != "age" {
		t.Fatalf("type mismatch should name the field, got %+v", resp.Details.Fields)
	}
}
