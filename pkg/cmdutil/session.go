package cmdutil

import (
	"context"

	"github.com/bgosselin/aci-scripts/pkg/apic"

	log "github.com/sirupsen/logrus"
)

// Dir is where the tools send config requests. Close ends any session
// that was opened.
type Dir interface {
	LookupByDn(ctx context.Context, dn string) (*apic.Mo, error)
	Commit(ctx context.Context, req *apic.ConfigRequest) error
	Close(ctx context.Context)
}

// Session logs in to the APIC on first use, so nothing is opened when a
// run ends before touching the fabric.
type Session struct {
	Endpoint apic.Endpoint

	client *apic.Client
}

func (s *Session) login(ctx context.Context) (*apic.Client, error) {
	if s.client != nil {
		return s.client, nil
	}
	c, err := apic.New(s.Endpoint)
	if err != nil {
		return nil, err
	}
	if err := c.Login(ctx); err != nil {
		return nil, err
	}
	s.client = c
	return c, nil
}

// LookupByDn logs in if needed and looks up dn.
func (s *Session) LookupByDn(ctx context.Context, dn string) (*apic.Mo, error) {
	c, err := s.login(ctx)
	if err != nil {
		return nil, err
	}
	return c.LookupByDn(ctx, dn)
}

// Commit logs in if needed and commits req.
func (s *Session) Commit(ctx context.Context, req *apic.ConfigRequest) error {
	c, err := s.login(ctx)
	if err != nil {
		return err
	}
	if err := c.Commit(ctx, req); err != nil {
		return err
	}
	log.WithField("dn", req.Dn().String()).Info("Committed")
	return nil
}

// LoggedIn reports whether the session was opened.
func (s *Session) LoggedIn() bool { return s.client != nil }

// Close logs out of an opened session. Failures are only logged.
func (s *Session) Close(ctx context.Context) {
	if s.client == nil {
		return
	}
	if err := s.client.Logout(ctx); err != nil {
		log.Warn(err)
	}
	s.client = nil
}
