package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"lambda-api-router/pkg/lambda"
	"lambda-api-router/pkg/router"
)

// ValidationError carries field-level detail for a failed validation.
type ValidationError struct {
	Field string `json:"field"`
	Tag   string `json:"tag"`
	Value string `json:"value"`
}

// validationResponse is the 400 body for rejected requests.
type validationResponse struct {
	Error            string            `json:"error"`
	ValidationErrors []ValidationError `json:"validation_errors,omitempty"`
}

var validate = validator.New()

// ValidateJSON re-decodes the parsed JSON body into a target struct and
// validates it with its validation tags. newTarget must return a pointer to
// a fresh struct per request. Requests without a decodable JSON body, and
// bodies failing validation, are rejected with 400 before later handlers
// run.
func ValidateJSON(newTarget func() interface{}) router.Handler {
	return func(req *lambda.Request, res *lambda.Response, next router.Next) {
		body, ok := req.Body.(map[string]interface{})
		if !ok {
			res.Status(http.StatusBadRequest)
			res.JSON(validationResponse{Error: "request body must be a JSON object"})
			return
		}

		raw, err := json.Marshal(body)
		if err != nil {
			res.Status(http.StatusBadRequest)
			res.JSON(validationResponse{Error: "invalid request body"})
			return
		}
		target := newTarget()
		if err := json.Unmarshal(raw, target); err != nil {
			res.Status(http.StatusBadRequest)
			res.JSON(validationResponse{Error: "request body does not match the expected shape"})
			return
		}

		if err := validate.Struct(target); err != nil {
			verrs, ok := err.(validator.ValidationErrors)
			if !ok {
				next(err)
				return
			}
			out := validationResponse{Error: "validation failed"}
			for _, fe := range verrs {
				out.ValidationErrors = append(out.ValidationErrors, ValidationError{
					Field: fe.Field(),
					Tag:   fe.Tag(),
					Value: fe.Param(),
				})
			}
			res.Status(http.StatusBadRequest)
			res.JSON(out)
			return
		}

		// hand the typed body to downstream handlers
		req.Body = target
		next(nil)
	}
}
