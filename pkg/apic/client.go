// Package apic is a small client for the APIC REST API. It follows the
// shape of the Cobra SDK: a login session, lookups by dn and config
// requests committed as one document.
package apic

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net"
	"net/http"
	"net/http/cookiejar"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	log "github.com/sirupsen/logrus"
)

const (
	loginPath  = "/api/aaaLogin.json"
	logoutPath = "/api/aaaLogout.json"
	moPath     = "/api/mo/"
)

// Endpoint holds what is needed to reach and log in to one APIC.
type Endpoint struct {
	Host     string
	Port     int
	Username string
	Password string
	Insecure bool
}

// Address returns host:port, or host alone when no port is set.
func (e Endpoint) Address() string {
	if e.Port == 0 {
		return e.Host
	}
	return net.JoinHostPort(e.Host, strconv.Itoa(e.Port))
}

// Client is a session with one APIC. It is not safe for concurrent use.
type Client struct {
	Endpoint
	Token string

	httpClient *http.Client
}

type aaaUserAttributes struct {
	Name string `json:"name"`
	Pwd  string `json:"pwd,omitempty"`
}

type aaaUser struct {
	Attributes aaaUserAttributes `json:"attributes"`
}

type aaaRequest struct {
	AAAUser aaaUser `json:"aaaUser"`
}

// New returns a client for ep. Nothing is sent until Login.
func New(ep Endpoint) (*Client, error) {
	if ep.Host == "" {
		return nil, errors.New("apic host is empty")
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	tr := &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: ep.Insecure}, // nolint: gosec
	}
	return &Client{
		Endpoint: ep,
		httpClient: &http.Client{
			Transport: tr,
			Jar:       jar,
			Timeout:   30 * time.Second,
		},
	}, nil
}

func responseBodyClose(resp *http.Response) {
	if err := resp.Body.Close(); err != nil {
		log.Warn(err)
	}
}

func (c *Client) sendRequest(ctx context.Context, method, path string, data []byte) (*http.Response, []byte, error) {
	url := fmt.Sprintf("https://%s%s", c.Address(), path)
	var body io.Reader
	if data != nil {
		body = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, url, body)
	if err != nil {
		return nil, nil, err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	log.Debugf("%s request to %s", method, path)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, nil, err
	}
	defer responseBodyClose(resp)
	respBody, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return resp, respBody, nil
}

// Login authenticates with aaaLogin. The session cookie is kept by the
// client for later requests.
func (c *Client) Login(ctx context.Context) error {
	data, err := json.Marshal(aaaRequest{
		AAAUser: aaaUser{
			Attributes: aaaUserAttributes{Name: c.Username, Pwd: c.Password},
		},
	})
	if err != nil {
		return err
	}
	resp, body, err := c.sendRequest(ctx, http.MethodPost, loginPath, data)
	if err != nil {
		return errors.Wrapf(err, "login to %s", c.Address())
	}
	if err := parseError(resp.StatusCode, body); err != nil {
		return errors.Wrapf(err, "login to %s", c.Address())
	}
	token := gjson.GetBytes(body, "imdata.0.aaaLogin.attributes.token").String()
	if token == "" {
		return errors.Errorf("login to %s: no token in response", c.Address())
	}
	c.Token = token
	log.WithField("apic", c.Address()).Info("Authentication successful.")
	return nil
}

// Logout ends the session.
func (c *Client) Logout(ctx context.Context) error {
	data, err := json.Marshal(aaaRequest{
		AAAUser: aaaUser{Attributes: aaaUserAttributes{Name: c.Username}},
	})
	if err != nil {
		return err
	}
	resp, body, err := c.sendRequest(ctx, http.MethodPost, logoutPath, data)
	if err != nil {
		return errors.Wrap(err, "logout")
	}
	if err := parseError(resp.StatusCode, body); err != nil {
		return errors.Wrap(err, "logout")
	}
	c.Token = ""
	return nil
}

// LookupByDn fetches the object at dn without its children. A missing
// object is reported as (nil, nil).
func (c *Client) LookupByDn(ctx context.Context, dn string) (*Mo, error) {
	d, err := ParseDn(dn)
	if err != nil {
		return nil, err
	}
	resp, body, err := c.sendRequest(ctx, http.MethodGet, moPath+d.String()+".json", nil)
	if err != nil {
		return nil, errors.Wrapf(err, "lookup %s", dn)
	}
	if err := parseError(resp.StatusCode, body); err != nil {
		return nil, errors.Wrapf(err, "lookup %s", dn)
	}
	imdata := gjson.GetBytes(body, "imdata").Array()
	if len(imdata) == 0 {
		return nil, nil
	}
	class, obj, err := single(imdata[0])
	if err != nil {
		return nil, errors.Wrapf(err, "lookup %s", dn)
	}
	mo, err := NewRootMo(class, d.String())
	if err != nil {
		return nil, err
	}
	mo.attrs = attributes(obj)
	delete(mo.attrs, "dn")
	return mo, nil
}

// Commit posts the request as one document against its context dn.
func (c *Client) Commit(ctx context.Context, req *ConfigRequest) error {
	root, err := req.Root()
	if err != nil {
		return err
	}
	data, err := json.Marshal(root)
	if err != nil {
		return err
	}
	dn := root.Dn().String()
	resp, body, err := c.sendRequest(ctx, http.MethodPost, moPath+dn+".json", data)
	if err != nil {
		return errors.Wrapf(err, "commit %s", dn)
	}
	if err := parseError(resp.StatusCode, body); err != nil {
		return errors.Wrapf(err, "commit %s", dn)
	}
	log.WithField("dn", dn).Debug("Committed config request")
	return nil
}
