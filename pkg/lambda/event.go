// Package lambda provides the canonical request/response model shared by the
// routing engine, plus the translation to and from the two supported
// invocation payload shapes: the API Gateway proxy event and the ALB
// target-group event.
package lambda

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
)

// EventSource tags which platform shape an invocation arrived as. It decides
// how the response is serialized.
type EventSource int

const (
	// SourceAPIGateway is the API Gateway proxy integration event.
	SourceAPIGateway EventSource = iota
	// SourceALB is the ALB target-group event.
	SourceALB
)

func (s EventSource) String() string {
	if s == SourceALB {
		return "alb"
	}
	return "api-gateway"
}

// ErrMissingHeaders is returned when a payload carries neither a headers nor
// a multiValueHeaders block.
var ErrMissingHeaders = errors.New("event carries neither headers nor multiValueHeaders")

// Event is the normalized superset of the fields this framework consumes
// from either payload shape.
type Event struct {
	Source                          EventSource
	Method                          string
	Path                            string
	Headers                         map[string]string
	MultiValueHeaders               map[string][]string
	QueryStringParameters           map[string]string
	MultiValueQueryStringParameters map[string][]string
	Body                            string
}

// ParseEvent decodes a raw invocation payload, discriminating the two shapes
// by probing the request context for the load-balancer-specific elb block.
func ParseEvent(raw []byte) (*Event, error) {
	var probe struct {
		RequestContext struct {
			ELB *struct {
				TargetGroupArn string `json:"targetGroupArn"`
			} `json:"elb"`
		} `json:"requestContext"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, fmt.Errorf("decode invocation payload: %w", err)
	}

	if probe.RequestContext.ELB != nil {
		var ev events.ALBTargetGroupRequest
		if err := json.Unmarshal(raw, &ev); err != nil {
			return nil, fmt.Errorf("decode ALB event: %w", err)
		}
		return newEvent(SourceALB, ev.HTTPMethod, ev.Path, ev.Headers, ev.MultiValueHeaders,
			ev.QueryStringParameters, ev.MultiValueQueryStringParameters, ev.Body)
	}

	var ev events.APIGatewayProxyRequest
	if err := json.Unmarshal(raw, &ev); err != nil {
		return nil, fmt.Errorf("decode API Gateway event: %w", err)
	}
	return newEvent(SourceAPIGateway, ev.HTTPMethod, ev.Path, ev.Headers, ev.MultiValueHeaders,
		ev.QueryStringParameters, ev.MultiValueQueryStringParameters, ev.Body)
}

func newEvent(source EventSource, method, path string, headers map[string]string,
	multiHeaders map[string][]string, query map[string]string,
	multiQuery map[string][]string, body string) (*Event, error) {
	if headers == nil && multiHeaders == nil {
		return nil, ErrMissingHeaders
	}
	return &Event{
		Source:                          source,
		Method:                          method,
		Path:                            path,
		Headers:                         headers,
		MultiValueHeaders:               multiHeaders,
		QueryStringParameters:           query,
		MultiValueQueryStringParameters: multiQuery,
		Body:                            body,
	}, nil
}
