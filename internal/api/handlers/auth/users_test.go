package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"splitpot/internal/repositories/sqlconnect"
	"splitpot/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mockDB(t *testing.T) sqlmock.Sqlmock {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlconnect.DB = db
	t.Cleanup(func() {
		sqlconnect.DB = nil
		db.Close()
	})
	return mock
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

const insertUser = "INSERT INTO users (email, password) VALUES (?, ?)"
const selectUser = "SELECT id, password FROM users WHERE email = ?"

func TestRegisterUsersHandler(t *testing.T) {
	mock := mockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(insertUser)).
		WithArgs("owner@test.com", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(`{"email":"Owner@Test.com","password":"pass123"}`))
	rec := httptest.NewRecorder()
	RegisterUsersHandler(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "user created", body["status"])
	assert.Equal(t, float64(1), body["user_id"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterUsersHandlerDuplicate(t *testing.T) {
	mock := mockDB(t)
	mock.ExpectExec(regexp.QuoteMeta(insertUser)).
		WillReturnError(&mysql.MySQLError{Number: 1062, Message: "Duplicate entry"})

	req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(`{"email":"owner@test.com","password":"pass123"}`))
	rec := httptest.NewRecorder()
	RegisterUsersHandler(rec, req)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "user already exists", decode(t, rec)["message"])
}

func TestRegisterUsersHandlerValidation(t *testing.T) {
	mockDB(t)

	for _, body := range []string{`{"email":"a@test.com"}`, `{"password":"x"}`, `{}`, ``, `{"email":"a@test.com","password":"x","role":"admin"}`} {
		req := httptest.NewRequest(http.MethodPost, "/user/register", strings.NewReader(body))
		rec := httptest.NewRecorder()
		RegisterUsersHandler(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "body %s", body)
	}

	rec := httptest.NewRecorder()
	RegisterUsersHandler(rec, httptest.NewRequest(http.MethodGet, "/user/register", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestLoginHandler(t *testing.T) {
	t.Setenv("JWT_SECRET", "test-secret")
	hashed, err := utils.HashPassword("pass123")
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		rows       *sqlmock.Rows
		wantStatus int
	}{
		{
			name:       "valid credentials",
			body:       `{"email":"owner@test.com","password":"pass123"}`,
			rows:       sqlmock.NewRows([]string{"id", "password"}).AddRow(1, hashed),
			wantStatus: http.StatusOK,
		},
		{
			name:       "wrong password",
			body:       `{"email":"owner@test.com","password":"nope"}`,
			rows:       sqlmock.NewRows([]string{"id", "password"}).AddRow(1, hashed),
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "unknown email",
			body:       `{"email":"ghost@test.com","password":"pass123"}`,
			rows:       sqlmock.NewRows([]string{"id", "password"}),
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := mockDB(t)
			mock.ExpectQuery(regexp.QuoteMeta(selectUser)).WillReturnRows(tt.rows)

			rec := httptest.NewRecorder()
			LoginHandler(rec, httptest.NewRequest(http.MethodPost, "/user/login", strings.NewReader(tt.body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decode(t, rec)
			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, "login ok", body["status"])
				assert.Equal(t, float64(1), body["user_id"])
				token, _ := body["token"].(string)
				claims, err := utils.ParseToken(token)
				require.NoError(t, err)
				assert.Equal(t, float64(1), claims["uid"])
				require.NotEmpty(t, rec.Result().Cookies())
				assert.Equal(t, "Bearer", rec.Result().Cookies()[0].Name)
			} else {
				assert.Equal(t, "invalid credentials", body["message"])
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestLogoutHandlerClearsCookie(t *testing.T) {
	rec := httptest.NewRecorder()
	LogoutHandler(rec, httptest.NewRequest(http.MethodPost, "/user/logout", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "", cookies[0].Value)
}
