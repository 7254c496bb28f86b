package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// GraphQLRequest is one operation received by the upstream mock.
type GraphQLRequest struct {
	OperationName string         `json:"operationName"`
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	Headers       map[string]string
}

type graphQLResponse struct {
	status int
	body   any
}

// GraphQLMock stands in for the fleet GraphQL API. Responses are keyed by
// operation name; unconfigured operations answer with an empty data object.
type GraphQLMock struct {
	mu        sync.Mutex
	server    *httptest.Server
	responses map[string]graphQLResponse
	requests  map[string][]GraphQLRequest
}

func NewGraphQLServer() *GraphQLMock {
	return &GraphQLMock{
		responses: map[string]graphQLResponse{},
		requests:  map[string][]GraphQLRequest{},
	}
}

func (g *GraphQLMock) Start() {
	g.server = httptest.NewServer(http.HandlerFunc(g.handle))
}

func (g *GraphQLMock) Close() {
	if g.server != nil {
		g.server.Close()
	}
}

func (g *GraphQLMock) GetUrl() string {
	return g.server.URL + "/graphql"
}

func (g *GraphQLMock) handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	body, _ := io.ReadAll(r.Body)
	var request GraphQLRequest
	_ = json.Unmarshal(body, &request)
	request.Headers = map[string]string{}
	for key, value := range r.Header {
		request.Headers[key] = value[0]
	}

	g.mu.Lock()
	g.requests[request.OperationName] = append(g.requests[request.OperationName], request)
	response, ok := g.responses[request.OperationName]
	g.mu.Unlock()

	if !ok {
		response = graphQLResponse{status: http.StatusOK, body: map[string]any{"data": map[string]any{}}}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.status)
	_ = json.NewEncoder(w).Encode(response.body)
}

// SetData answers operation with {"data": data}.
func (g *GraphQLMock) SetData(operation string, data any) {
	g.SetResponse(operation, http.StatusOK, map[string]any{"data": data})
}

// SetErrors answers operation with a GraphQL errors array.
func (g *GraphQLMock) SetErrors(operation string, messages ...string) {
	errs := make([]map[string]any, len(messages))
	for i, message := range messages {
		errs[i] = map[string]any{"message": message}
	}
	g.SetResponse(operation, http.StatusOK, map[string]any{"data": nil, "errors": errs})
}

func (g *GraphQLMock) SetResponse(operation string, status int, body any) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses[operation] = graphQLResponse{status: status, body: body}
}

func (g *GraphQLMock) GetRequests(operation string) []GraphQLRequest {
	g.mu.Lock()
	defer g.mu.Unlock()
	requests := make([]GraphQLRequest, len(g.requests[operation]))
	copy(requests, g.requests[operation])
	return requests
}

func (g *GraphQLMock) Reset() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.responses = map[string]graphQLResponse{}
	g.requests = map[string][]GraphQLRequest{}
}
