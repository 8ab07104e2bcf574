// Package render prints config requests instead of sending them, for
// dry runs.
package render

import (
	"context"
	"encoding/json"
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/bgosselin/aci-scripts/pkg/apic"

	log "github.com/sirupsen/logrus"
)

// Format is an output encoding.
type Format string

// Supported formats.
const (
	JSON Format = "json"
	XML  Format = "xml"
	YAML Format = "yaml"
)

// Mask replaces secrets in rendered output.
const Mask = "******"

var secretProps = []string{"pwd"}

// ParseFormat accepts json, xml or yaml ("" means json).
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return JSON, nil
	case JSON, XML, YAML:
		return f, nil
	}
	return "", errors.Errorf("invalid output format %q: want json, xml or yaml", s)
}

// Request writes the document req would post, preceded by the request
// line. Passwords are masked.
func Request(w io.Writer, f Format, req *apic.ConfigRequest) error {
	root, err := req.Root()
	if err != nil {
		return err
	}
	root = root.Redact(Mask, secretProps...)
	fmt.Fprintf(w, "POST /api/mo/%s.%s\n", root.Dn(), ext(f))
	var data []byte
	switch f {
	case JSON:
		data, err = json.MarshalIndent(root, "", "  ")
	case XML:
		data, err = xml.MarshalIndent(root, "", "  ")
	case YAML:
		data, err = yaml.Marshal(root.Map())
	default:
		return errors.Errorf("unknown format %q", f)
	}
	if err != nil {
		return errors.Wrapf(err, "render %s", root.Dn())
	}
	if _, err := w.Write(data); err != nil {
		return err
	}
	if len(data) == 0 || data[len(data)-1] != '\n' {
		fmt.Fprintln(w)
	}
	return nil
}

// The APIC takes json or xml; yaml output stands for the json post.
func ext(f Format) string {
	if f == YAML {
		return string(JSON)
	}
	return string(f)
}

// DryRun stands in for an APIC session. Lookups of the containers every
// fabric has succeed, commits are rendered to Out.
type DryRun struct {
	Out    io.Writer
	Format Format

	commits int
}

var containers = map[string]string{
	"uni":             "polUni",
	"uni/infra":       "infraInfra",
	"uni/vmmp-VMware": "vmmProvP",
}

// LookupByDn returns an empty object for the fabric containers and
// nil for anything else.
func (d *DryRun) LookupByDn(_ context.Context, dn string) (*apic.Mo, error) {
	class, ok := containers[dn]
	if !ok {
		return nil, nil
	}
	return apic.NewRootMo(class, dn)
}

// Commit renders req.
func (d *DryRun) Commit(_ context.Context, req *apic.ConfigRequest) error {
	if err := Request(d.Out, d.Format, req); err != nil {
		return err
	}
	d.commits++
	log.WithField("dn", req.Dn().String()).Info("Rendered")
	return nil
}

// Commits returns the number of rendered requests.
func (d *DryRun) Commits() int { return d.commits }
