// Package contracts validates outgoing events against their embedded JSON
// schemas before anything reaches the broker.
package contracts

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/BerkanHRGL/schadeautos/schemas"
)

const (
	EventListingMatch  = "ListingMatchEvent"
	EventListingDigest = "ListingDigestEvent"

	EventVersion = "1.0.0"
)

var compiledSchemas = make(map[string]*jsonschema.Schema)

func init() {
	compiler := jsonschema.NewCompiler()
	compiler.AssertFormat = true

	for eventType, path := range map[string]string{
		EventListingMatch:  "events/notification-match/v1.json",
		EventListingDigest: "events/notification-digest/v1.json",
	} {
		raw, err := schemas.FS.Open(path)
		if err != nil {
			log.Fatalf("failed to open embedded schema %s: %v", path, err)
		}
		if err := compiler.AddResource(path, raw); err != nil {
			log.Fatalf("failed to add schema resource %s: %v", path, err)
		}
		schema, err := compiler.Compile(path)
		if err != nil {
			log.Fatalf("failed to compile schema %s: %v", path, err)
		}
		compiledSchemas[fmt.Sprintf("%s/%s", eventType, EventVersion)] = schema
	}
}

// ValidateEvent checks a message body against the schema registered for its
// type and version.
func ValidateEvent(eventType, eventVersion string, body []byte) error {
	key := fmt.Sprintf("%s/%s", eventType, eventVersion)
	schema, ok := compiledSchemas[key]
	if !ok {
		return fmt.Errorf("schema for event '%s' version '%s' not found", eventType, eventVersion)
	}

	var v interface{}
	if err := json.Unmarshal(body, &v); err != nil {
		return fmt.Errorf("message body is not valid JSON: %w", err)
	}

	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("JSON schema validation failed: %w", err)
	}
	return nil
}
