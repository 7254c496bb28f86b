package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/cucumber/godog"
	"github.com/golang-jwt/jwt/v5"
	"github.com/lib/pq"
	"gorm.io/gorm"

	"github.com/fleet-console/backend/internal/integration/adapters"
	"github.com/fleet-console/backend/internal/integration/persistence/model"
)

var errNoContext = errors.New("test context not found")

// registerSetupSteps registers clock, auth and fixture steps.
func registerSetupSteps(ctx *godog.ScenarioContext) {
	ctx.Given(`^the API server is running$`, theAPIServerIsRunning)
	ctx.Given(`^the current time is "([^"]*)"$`, theCurrentTimeIs)
	ctx.Given(`^I am authenticated as an operator$`, iAmAuthenticatedAsAnOperator)
	ctx.Given(`^I am authenticated with an expired token$`, iAmAuthenticatedWithAnExpiredToken)
	ctx.Given(`^I am authenticated with a token without organization$`, iAmAuthenticatedWithoutOrganization)
	ctx.Given(`^the header is empty$`, theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, theHeaderContainsTheKeyWith)
	ctx.Given(`^the organization has dashboard settings:$`, theOrganizationHasDashboardSettings)
}

// registerUpstreamSteps registers GraphQL upstream stubs and assertions.
func registerUpstreamSteps(ctx *godog.ScenarioContext) {
	ctx.Given(`^the upstream answers "([^"]*)" with data:$`, theUpstreamAnswersWithData)
	ctx.Given(`^the upstream answers "([^"]*)" with status (\d+)$`, theUpstreamAnswersWithStatus)
	ctx.Given(`^the upstream answers "([^"]*)" with errors "([^"]*)"$`, theUpstreamAnswersWithErrors)
	ctx.Then(`^the upstream should have received (\d+) "([^"]*)" requests?$`, theUpstreamShouldHaveReceived)
	ctx.Then(`^the last "([^"]*)" request should have variable "([^"]*)" equal to "([^"]*)"$`, theLastRequestShouldHaveVariable)
}

// registerAPISteps registers HTTP request steps.
func registerAPISteps(ctx *godog.ScenarioContext) {
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, iSendARequestToWithBody)
}

// registerResponseSteps registers response validation steps.
func registerResponseSteps(ctx *godog.ScenarioContext) {
	ctx.Then(`^the response status should be (\d+)$`, theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, theResponseFieldShouldExist)
	ctx.Then(`^the response field "([^"]*)" should have (\d+) items$`, theResponseFieldShouldHaveItems)
}

// registerDatabaseSteps registers database assertion steps.
func registerDatabaseSteps(ctx *godog.ScenarioContext) {
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, theDbShouldContainObjectsInWithTheValues)
}

// Setup steps

func theAPIServerIsRunning(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil || tc.server == nil {
		return fmt.Errorf("test server is not running")
	}
	return nil
}

func theCurrentTimeIs(ctx context.Context, value string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	now, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", value, err)
	}
	tc.timeMock.SetCurrentTime(now)
	return nil
}

func iAmAuthenticatedAsAnOperator(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	token, err := tc.signToken(tc.organizationID.String(), time.Now().Add(time.Hour))
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

func iAmAuthenticatedWithAnExpiredToken(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	token, err := tc.signToken(tc.organizationID.String(), time.Now().Add(-time.Hour))
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

func iAmAuthenticatedWithoutOrganization(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	token, err := tc.signToken("", time.Now().Add(time.Hour))
	if err != nil {
		return err
	}
	tc.accessToken = token
	return nil
}

func (tc *TestContext) signToken(organizationID string, expiresAt time.Time) (string, error) {
	claims := adapters.AccessClaims{
		UserID:         tc.operatorID.String(),
		OrganizationID: organizationID,
		Email:          "operator@fleet.test",
		TokenType:      adapters.TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    testJWTIssuer,
			Subject:   tc.operatorID.String(),
			IssuedAt:  jwt.NewNumericDate(expiresAt.Add(-2 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testJWTSecret))
}

func theHeaderIsEmpty(ctx context.Context) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.headers = make(map[string]string)
	tc.accessToken = ""
	return nil
}

func theHeaderContainsTheKeyWith(ctx context.Context, key, value string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.headers[key] = value
	return nil
}

func theOrganizationHasDashboardSettings(ctx context.Context, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	var fixture struct {
		Timezone         string   `json:"timezone"`
		DefaultTimeframe string   `json:"default_timeframe"`
		LegacyDailySlot  bool     `json:"legacy_daily_slot"`
		HiddenCharts     []string `json:"hidden_charts"`
	}
	if err := json.Unmarshal([]byte(body.Content), &fixture); err != nil {
		return fmt.Errorf("invalid settings fixture: %w", err)
	}

	now := time.Now().UTC()
	return tc.db.Insert(&model.DashboardSettingsModel{
		OrganizationID:   tc.organizationID,
		Timezone:         fixture.Timezone,
		DefaultTimeframe: fixture.DefaultTimeframe,
		LegacyDailySlot:  fixture.LegacyDailySlot,
		HiddenCharts:     pq.StringArray(fixture.HiddenCharts),
		CreatedAt:        now,
		UpdatedAt:        now,
	})
}

// Upstream steps

func theUpstreamAnswersWithData(ctx context.Context, operation string, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	var data any
	if err := json.Unmarshal([]byte(body.Content), &data); err != nil {
		return fmt.Errorf("invalid upstream data: %w", err)
	}
	tc.upstream.SetData(operation, data)
	return nil
}

func theUpstreamAnswersWithStatus(ctx context.Context, operation string, status int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.upstream.SetResponse(operation, status, map[string]any{"message": http.StatusText(status)})
	return nil
}

func theUpstreamAnswersWithErrors(ctx context.Context, operation, message string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	tc.upstream.SetErrors(operation, message)
	return nil
}

func theUpstreamShouldHaveReceived(ctx context.Context, quantity int, operation string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if got := len(tc.upstream.GetRequests(operation)); got != quantity {
		return fmt.Errorf("expected %d %s requests, got %d", quantity, operation, got)
	}
	return nil
}

func theLastRequestShouldHaveVariable(ctx context.Context, operation, variable, expected string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	requests := tc.upstream.GetRequests(operation)
	if len(requests) == 0 {
		return fmt.Errorf("no %s requests received", operation)
	}

	last := requests[len(requests)-1]
	if auth := last.Headers["Authorization"]; auth != "Bearer "+tc.cfg.GraphQL.Token {
		return fmt.Errorf("unexpected upstream authorization %q", auth)
	}
	value, ok := last.Variables[variable]
	if !ok {
		return fmt.Errorf("variable %q not sent: %v", variable, last.Variables)
	}
	if actual := formatValue(value); actual != expected {
		return fmt.Errorf("variable %q expected %q, got %q", variable, expected, actual)
	}
	return nil
}

// Request steps

func iSendARequestTo(ctx context.Context, method, path string) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	return tc.executeRequest(method, tc.replacePlaceholders(path), nil)
}

func iSendARequestToWithBody(ctx context.Context, method, path string, body *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(tc.replacePlaceholders(body.Content))
	}
	return tc.executeRequest(method, tc.replacePlaceholders(path), payload)
}

func (tc *TestContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{organization_id}}", tc.organizationID.String())
	content = strings.ReplaceAll(content, "{{operator_id}}", tc.operatorID.String())
	return content
}

func (tc *TestContext) executeRequest(method, path string, payload []byte) error {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequest(method, tc.server.URL+path, body)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if tc.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+tc.accessToken)
	}
	for key, value := range tc.headers {
		req.Header.Set(key, value)
	}

	resp, err := tc.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	tc.response = &response{status: resp.StatusCode}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		tc.response.body = string(bodyBytes)
	} else {
		tc.response.body = responseBody
	}
	return nil
}

// Response steps

func theResponseStatusShouldBe(ctx context.Context, expectedStatus int) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}
	if tc.response == nil {
		return errors.New("no response received")
	}
	if tc.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, tc.response.status, tc.response.body)
	}
	return nil
}

func theResponseShouldBeJSON(ctx context.Context) error {
	_, err := responseObject(ctx)
	return err
}

func theResponseShouldContain(ctx context.Context, field string) error {
	body, err := responseObject(ctx)
	if err != nil {
		return err
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func theResponseFieldShouldBe(ctx context.Context, field, expectedValue string) error {
	body, err := responseObject(ctx)
	if err != nil {
		return err
	}

	value := getFieldValue(body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}

	expectedValue = GetTestContext(ctx).replacePlaceholders(expectedValue)
	if actual := formatValue(value); actual != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actual)
	}
	return nil
}

func theResponseFieldShouldExist(ctx context.Context, field string) error {
	body, err := responseObject(ctx)
	if err != nil {
		return err
	}
	if getFieldValue(body, field) == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, body)
	}
	return nil
}

func theResponseFieldShouldHaveItems(ctx context.Context, field string, quantity int) error {
	body, err := responseObject(ctx)
	if err != nil {
		return err
	}

	items, ok := getFieldValue(body, field).([]any)
	if !ok {
		return fmt.Errorf("field '%s' is not an array: %v", field, body)
	}
	if len(items) != quantity {
		return fmt.Errorf("field '%s' expected %d items, got %d", field, quantity, len(items))
	}
	return nil
}

func responseObject(ctx context.Context) (map[string]any, error) {
	tc := GetTestContext(ctx)
	if tc == nil {
		return nil, errNoContext
	}
	if tc.response == nil {
		return nil, errors.New("no response received")
	}
	body, ok := tc.response.body.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("response is not a JSON object: %v", tc.response.body)
	}
	return body, nil
}

// Database steps

func theDbShouldContainObjectsInTheTable(ctx context.Context, quantity int, table string) error {
	return theDbShouldContainObjectsInWithTheValues(ctx, quantity, table, &godog.DocString{Content: "{}"})
}

func theDbShouldContainObjectsInWithTheValues(ctx context.Context, quantity int, table string, content *godog.DocString) error {
	tc := GetTestContext(ctx)
	if tc == nil {
		return errNoContext
	}

	var criteria map[string]any
	if err := json.Unmarshal([]byte(tc.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	entity, ok := tc.db.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	entityType := reflect.TypeOf(entity).Elem()
	entitySlicePtr := reflect.New(reflect.SliceOf(entityType))

	query := tc.db.DbConn.Unscoped()
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	result := query.Find(entitySlicePtr.Interface())
	if result.Error != nil && !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		return result.Error
	}

	if count := entitySlicePtr.Elem().Len(); count != quantity {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

// getFieldValue walks a dot separated path; numeric segments index arrays.
func getFieldValue(object map[string]any, dotSeparatedField string) any {
	var field any = object

	for _, currentField := range strings.Split(dotSeparatedField, ".") {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}

// formatValue renders JSON scalars without exponent notation.
func formatValue(value any) string {
	if f, ok := value.(float64); ok {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return fmt.Sprintf("%v", value)
}
