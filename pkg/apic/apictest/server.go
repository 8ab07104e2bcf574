// Package apictest provides an in-memory APIC for tests. It speaks the
// subset of the REST API the apic client uses and keeps every committed
// object in a dn keyed store.
package apictest

import (
	"fmt"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"

	"github.com/labstack/echo"
	"github.com/tidwall/gjson"

	"github.com/bgosselin/aci-scripts/pkg/apic"
)

const cookieName = "APIC-cookie"

// readOnly lists the properties the APIC reports on every object but
// refuses in a config post.
var readOnly = []string{"childAction", "lcOwn", "modTs", "monPolDn", "uid"}

func implicit(monPolDn string, attrs map[string]string) map[string]string {
	res := map[string]string{
		"childAction": "",
		"lcOwn":       "local",
		"modTs":       "2026-01-12T09:41:07.512+00:00",
		"monPolDn":    monPolDn,
		"uid":         "0",
		"status":      "",
	}
	for k, v := range attrs {
		res[k] = v
	}
	return res
}

// Record is one stored object.
type Record struct {
	Class string
	Dn    string
	Attrs map[string]string
}

// Server is an APIC emulator listening on a local TLS port.
type Server struct {
	*httptest.Server

	username string
	password string

	mu       sync.Mutex
	objects  map[string]Record
	order    []string
	tokens   map[string]bool
	rejected map[string]apic.Error
	commits  int
	logins   int
}

// NewServer starts an emulator accepting the given credentials. The
// containers every fabric has (uni, uni/infra, uni/vmmp-VMware) exist
// from the start, with the implicit properties a real fabric reports.
func NewServer(username, password string) *Server {
	s := &Server{
		username: username,
		password: password,
		objects:  map[string]Record{},
		tokens:   map[string]bool{},
		rejected: map[string]apic.Error{},
	}
	monPol := "uni/fabric/monfab-default"
	s.store(Record{Class: "polUni", Dn: "uni", Attrs: implicit(monPol, map[string]string{"name": ""})})
	s.store(Record{Class: "infraInfra", Dn: "uni/infra", Attrs: implicit("uni/infra/moninfra-default", nil)})
	s.store(Record{Class: "vmmProvP", Dn: "uni/vmmp-VMware", Attrs: implicit(monPol, map[string]string{"vendor": "VMware"})})

	e := echo.New()
	e.HideBanner = true
	e.POST("/api/aaaLogin.json", s.login)
	e.POST("/api/aaaLogout.json", s.logout, s.authenticated)
	e.GET("/api/mo/*", s.get, s.authenticated)
	e.POST("/api/mo/*", s.post, s.authenticated)
	s.Server = httptest.NewTLSServer(e)
	return s
}

// Endpoint returns an endpoint for the apic client pointing at s.
func (s *Server) Endpoint(username, password string) apic.Endpoint {
	u, err := url.Parse(s.URL)
	if err != nil {
		panic(err)
	}
	host, portStr, err := net.SplitHostPort(u.Host)
	if err != nil {
		panic(err)
	}
	port, err := strconv.Atoi(portStr)
	if err != nil {
		panic(err)
	}
	return apic.Endpoint{
		Host:     host,
		Port:     port,
		Username: username,
		Password: password,
		Insecure: true,
	}
}

// Reject makes every commit posted against dn fail with the given error.
func (s *Server) Reject(dn string, status int, code, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejected[dn] = apic.Error{Status: status, Code: code, Text: text}
}

// Lookup returns the object stored at dn.
func (s *Server) Lookup(dn string) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.objects[dn]
	return r, ok
}

// ChildrenOf returns the direct children of dn of the given class, in
// the order they were first committed.
func (s *Server) ChildrenOf(dn, class string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []Record
	for _, key := range s.order {
		r := s.objects[key]
		if r.Class != class {
			continue
		}
		d, err := apic.ParseDn(r.Dn)
		if err != nil || d.Parent().String() != dn {
			continue
		}
		res = append(res, r)
	}
	return res
}

// ByClass returns every object of class, in commit order.
func (s *Server) ByClass(class string) []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	var res []Record
	for _, key := range s.order {
		if r := s.objects[key]; r.Class == class {
			res = append(res, r)
		}
	}
	return res
}

// Commits returns the number of accepted config posts.
func (s *Server) Commits() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits
}

// Logins returns the number of successful logins.
func (s *Server) Logins() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.logins
}

func (s *Server) store(r Record) {
	if old, ok := s.objects[r.Dn]; ok {
		for k, v := range r.Attrs {
			old.Attrs[k] = v
		}
		return
	}
	s.objects[r.Dn] = r
	s.order = append(s.order, r.Dn)
}

func errorBody(code, text string) map[string]interface{} {
	return map[string]interface{}{
		"totalCount": "1",
		"imdata": []interface{}{
			map[string]interface{}{
				"error": map[string]interface{}{
					"attributes": map[string]string{"code": code, "text": text},
				},
			},
		},
	}
}

func emptyBody() map[string]interface{} {
	return map[string]interface{}{"totalCount": "0", "imdata": []interface{}{}}
}

func (s *Server) login(c echo.Context) error {
	body, err := ioutil.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	attrs := gjson.GetBytes(body, "aaaUser.attributes")
	if attrs.Get("name").String() != s.username || attrs.Get("pwd").String() != s.password {
		return c.JSON(http.StatusUnauthorized,
			errorBody("401", "Username or password is incorrect - FAILED local authentication"))
	}
	s.mu.Lock()
	s.logins++
	token := fmt.Sprintf("token-%d", s.logins)
	s.tokens[token] = true
	s.mu.Unlock()
	c.SetCookie(&http.Cookie{Name: cookieName, Value: token, Path: "/"})
	return c.JSON(http.StatusOK, map[string]interface{}{
		"totalCount": "1",
		"imdata": []interface{}{
			map[string]interface{}{
				"aaaLogin": map[string]interface{}{
					"attributes": map[string]string{
						"token":                 token,
						"userName":              s.username,
						"refreshTimeoutSeconds": "600",
					},
				},
			},
		},
	})
}

func (s *Server) logout(c echo.Context) error {
	cookie, err := c.Cookie(cookieName)
	if err == nil {
		s.mu.Lock()
		delete(s.tokens, cookie.Value)
		s.mu.Unlock()
	}
	return c.JSON(http.StatusOK, emptyBody())
}

func (s *Server) authenticated(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		cookie, err := c.Cookie(cookieName)
		s.mu.Lock()
		ok := err == nil && s.tokens[cookie.Value]
		s.mu.Unlock()
		if !ok {
			return c.JSON(http.StatusForbidden, errorBody("403", "Token was invalid (Error: Token timeout)"))
		}
		return next(c)
	}
}

func dnParam(c echo.Context) (string, error) {
	p, err := url.PathUnescape(c.Param("*"))
	if err != nil {
		return "", err
	}
	return strings.TrimSuffix(p, ".json"), nil
}

func (s *Server) get(c echo.Context) error {
	dn, err := dnParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("400", err.Error()))
	}
	r, ok := s.Lookup(dn)
	if !ok {
		return c.JSON(http.StatusOK, emptyBody())
	}
	attrs := map[string]string{"dn": r.Dn}
	for k, v := range r.Attrs {
		attrs[k] = v
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"totalCount": "1",
		"imdata": []interface{}{
			map[string]interface{}{r.Class: map[string]interface{}{"attributes": attrs}},
		},
	})
}

func (s *Server) post(c echo.Context) error {
	dn, err := dnParam(c)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("400", err.Error()))
	}
	body, err := ioutil.ReadAll(c.Request().Body)
	if err != nil {
		return err
	}
	root, err := apic.DecodeMo(body, dn)
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody("103", err.Error()))
	}
	if root.Dn().String() != dn {
		return c.JSON(http.StatusBadRequest,
			errorBody("103", fmt.Sprintf("dn %s does not match url %s", root.Dn(), dn)))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if rej, ok := s.rejected[dn]; ok {
		return c.JSON(rej.Status, errorBody(rej.Code, rej.Text))
	}
	if _, ok := s.objects[dn]; !ok {
		if _, ok := s.objects[root.Dn().Parent().String()]; !ok {
			return c.JSON(http.StatusBadRequest,
				errorBody("102", fmt.Sprintf("configured object ((Dn0)) not found Dn0=%s", root.Dn().Parent())))
		}
	}
	err = root.Walk(func(mo *apic.Mo) error {
		for _, p := range readOnly {
			if _, ok := mo.Attrs()[p]; ok {
				return &apic.Error{
					Status: http.StatusBadRequest,
					Code:   "121",
					Text:   fmt.Sprintf("Property %s of %s is read-only", p, mo.Dn()),
				}
			}
		}
		return nil
	})
	if rej, ok := err.(*apic.Error); ok {
		return c.JSON(rej.Status, errorBody(rej.Code, rej.Text))
	}
	if err != nil {
		return err
	}
	err = root.Walk(func(mo *apic.Mo) error {
		s.store(Record{Class: mo.Class(), Dn: mo.Dn().String(), Attrs: mo.Attrs()})
		return nil
	})
	if err != nil {
		return err
	}
	s.commits++
	return c.JSON(http.StatusOK, emptyBody())
}
