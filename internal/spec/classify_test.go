package spec

import (
	"strings"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
)

const connectedPath = "/telescope/{device_number}/connected"

// runMutated loads the sample description, applies mutate, and runs the
// pipeline expecting a fatal classification error.
func runMutated(t *testing.T, mutate func(*openapi3.T), wantSubstr string) {
	t.Helper()
	doc := loadDoc(t, sampleSpec)
	mutate(doc)
	_, err := NewPipeline(doc).Run()
	if err == nil {
		t.Fatal("expected a fatal classification error")
	}
	if !strings.Contains(err.Error(), wantSubstr) {
		t.Errorf("error = %v, want substring %q", err, wantSubstr)
	}
}

func TestClassifyMissingSuccessResponse(t *testing.T) {
	runMutated(t, func(doc *openapi3.T) {
		delete(doc.Paths[connectedPath].Get.Responses, "200")
	}, "missing success")
}

func TestClassifyUnexpectedErrorResponse(t *testing.T) {
	runMutated(t, func(doc *openapi3.T) {
		resps := doc.Paths[connectedPath].Get.Responses
		resps["404"] = resps["400"]
	}, "exactly 400 and 500")
}

func TestClassifyErrorResponseShape(t *testing.T) {
	runMutated(t, func(doc *openapi3.T) {
		bad := doc.Paths[connectedPath].Get.Responses["400"].Value
		bad.Content = openapi3.Content{
			"application/json": &openapi3.MediaType{
				Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "string"}},
			},
		}
	}, "text/plain")
}

func TestClassifyGetWithBody(t *testing.T) {
	runMutated(t, func(doc *openapi3.T) {
		doc.Paths[connectedPath].Get.RequestBody = &openapi3.RequestBodyRef{
			Value: &openapi3.RequestBody{},
		}
	}, "must not declare a request body")
}

func TestClassifyPutWithQueryParameters(t *testing.T) {
	runMutated(t, func(doc *openapi3.T) {
		put := doc.Paths[connectedPath].Put
		put.Parameters = append(put.Parameters, &openapi3.ParameterRef{
			Value: &openapi3.Parameter{
				Name:   "ClientID",
				In:     "query",
				Schema: &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "integer", Format: "uint32"}},
			},
		})
	}, "must not declare query parameters")
}

func TestClassifyPutWrongBodyEncoding(t *testing.T) {
	runMutated(t, func(doc *openapi3.T) {
		body := doc.Paths[connectedPath].Put.RequestBody.Value
		mt := body.Content["application/x-www-form-urlencoded"]
		body.Content = openapi3.Content{"application/json": mt}
	}, "x-www-form-urlencoded")
}

func TestClassifyNonObjectSuccessSchema(t *testing.T) {
	runMutated(t, func(doc *openapi3.T) {
		mt := doc.Paths[connectedPath].Get.Responses["200"].Value.Content["application/json"]
		mt.Schema = &openapi3.SchemaRef{Value: &openapi3.Schema{Type: "string"}}
	}, "must be an object")
}
