package echoapi

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/trezcool/masomo/core"
	"github.com/trezcool/masomo/core/user"
	"github.com/trezcool/masomo/storage/database/sqlxstore"
	"github.com/trezcool/masomo/tests"
)

const testPwd = "Mas0mo!Pwd"

var (
	ctxBg = context.Background()

	errMissingToken = httpErr{Error: "missing or malformed jwt"}
)

type testEnv struct {
	conf *core.Config
	db   *sqlxstore.DB
	app  *Server

	superAdmin, admin, teacher                *user.User
	superAdminToken, adminToken, teacherToken string
}

func setup(t *testing.T) *testEnv {
	conf := testutil.NewConfig()
	db := testutil.OpenDB(t)

	validate := validator.New()
	translator := core.NewTranslator()
	core.InitValidators(validate, translator)
	user.InitValidators(validate, translator)

	env := &testEnv{
		conf: conf,
		db:   db,
		app: NewServer(ServerDeps{
			Conf:       conf,
			Logger:     testutil.NewLogger(t),
			DB:         db,
			Validate:   validate,
			Translator: translator,
		}),
	}
	env.superAdmin = testutil.CreateUser(t, db, "boss", "Big Boss", testPwd, user.RoleSuperAdmin)
	env.admin = testutil.CreateUser(t, db, "admin", "School Admin", testPwd, user.RoleAdmin)
	env.teacher = testutil.CreateUser(t, db, "teacher", "Jane Teacher", testPwd, user.RoleTeacher)
	env.superAdminToken = getToken(t, conf, env.superAdmin)
	env.adminToken = getToken(t, conf, env.admin)
	env.teacherToken = getToken(t, conf, env.teacher)
	return env
}

// freezeTime makes the API see `now` as the current time until the end of the test.
func freezeTime(t *testing.T, now time.Time) {
	nowFunc = func() time.Time { return now }
	t.Cleanup(func() { nowFunc = time.Now })
}

type httpErr struct {
	Error string `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
	check    func(t *testing.T) // extra assertions on the store, run after the request
}

func (env *testEnv) run(t *testing.T, tests []httpTest) {
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token, tt.body)
			env.app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
			if tt.check != nil {
				tt.check(t)
			}
		})
	}
}

func (env *testEnv) do(method, path, token string, data ...[]byte) *httptest.ResponseRecorder {
	req, rec := newAuthRequest(method, path, token, data...)
	env.app.ServeHTTP(rec, req)
	return rec
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func getToken(t *testing.T, conf *core.Config, usr *user.User) string {
	token, err := GenerateToken(conf, NewClaims(conf, usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	return reflect.DeepEqual(j1, j2), nil
}

// checkCodeAndData compares the response code and, when wantData is set, the JSON body.
func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v; body %s", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantData == nil {
		if tt.wantCode == http.StatusNoContent && rec.Body.Len() != 0 {
			t.Errorf("failed! data = %v; want no content", rec.Body.String())
		}
		return
	}
	ok, err := jsonBytesEqual(rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
