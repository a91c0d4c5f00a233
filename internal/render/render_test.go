package render

import (
	"context"
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/astroseek/alpacagen/internal/spec"
)

const renderSpec = `openapi: 3.0.0
info:
  title: Alpaca Device API
  version: "1.0"
paths:
  /telescope/{device_number}/connected:
    put:
      parameters:
        - name: device_number
          in: path
          required: true
          schema:
            type: integer
            format: uint32
      requestBody:
        content:
          application/x-www-form-urlencoded:
            schema:
              type: object
              properties:
                ClientID:
                  type: integer
                  format: uint32
                ClientTransactionID:
                  type: integer
                  format: uint32
                Connected:
                  type: boolean
      responses:
        "200":
          description: ok
          content:
            application/json:
              schema:
                type: object
                properties:
                  ClientTransactionID:
                    type: integer
                    format: uint32
                  ServerTransactionID:
                    type: integer
                    format: uint32
                  ErrorNumber:
                    type: integer
                    format: int32
                  ErrorMessage:
                    type: string
        "400":
          description: bad request
          content:
            text/plain:
              schema:
                type: string
        "500":
          description: server error
          content:
            text/plain:
              schema:
                type: string
`

func buildModel(t *testing.T) *spec.Model {
	t.Helper()
	doc, err := openapi3.NewLoader().LoadFromData([]byte(renderSpec))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	model, err := spec.NewPipeline(doc).Run()
	if err != nil {
		t.Fatalf("pipeline: %v", err)
	}
	return model
}

func TestRenderDefaultTemplate(t *testing.T) {
	model := buildModel(t)

	out, err := Render(context.Background(), model, Options{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	src := string(out)

	for _, want := range []string{
		"type PutTelescopeConnectedRequest struct {",
		"Connected bool `json:\"Connected\"`",
		"// put_telescope_connected: put /telescope/{device_number}/connected",
		"type DeviceNumberPath struct {",
	} {
		if !strings.Contains(src, want) {
			t.Errorf("output missing %q\n%s", want, src)
		}
	}

	// The minted path container was superseded by the canonical shape and
	// must not be declared.
	if strings.Contains(src, "PutTelescopeConnectedPath") {
		t.Error("superseded type must not be rendered")
	}
}

func TestRenderCustomTemplate(t *testing.T) {
	model := buildModel(t)

	out, err := Render(context.Background(), model, Options{
		Template: `{{range .Operations}}{{pascal .ID}} {{end}}`,
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	if got := strings.TrimSpace(string(out)); got != "PutTelescopeConnected" {
		t.Errorf("output = %q", got)
	}
}

func TestFormatRoundTrip(t *testing.T) {
	out, err := Format(context.Background(), "cat", nil, []byte("hello\n"))
	if err != nil {
		t.Fatalf("format: %v", err)
	}
	if string(out) != "hello\n" {
		t.Errorf("output = %q", out)
	}
}

func TestFormatFailureIsFatal(t *testing.T) {
	if _, err := Format(context.Background(), "false", nil, nil); err == nil {
		t.Fatal("non-zero formatter exit must fail the run")
	}
}
