package main

import (
	"encoding/json"
	"log"
	"os"

	"github.com/invopop/jsonschema"
	"github.com/mattsolo1/grove-sandbox/cmd"
	"github.com/mattsolo1/grove-sandbox/pkg/sandbox"
)

func main() {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		FieldNameTag:              "yaml",
	}

	schema := r.Reflect(&cmd.SandboxConfig{})
	schema.Title = "Grove Sandbox Configuration"
	schema.Description = "Schema for the 'sandbox' extension in grove.yml."

	// Make all fields optional - Grove configs should not require any fields
	schema.Required = nil

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling schema: %v", err)
	}

	// Write to the package root
	if err := os.WriteFile("sandbox.schema.json", data, 0644); err != nil {
		log.Fatalf("Error writing schema file: %v", err)
	}

	log.Printf("Successfully generated sandbox schema at sandbox.schema.json")

	// The wire model uses JSON field names.
	wire := &jsonschema.Reflector{
		ExpandedStruct: true,
	}
	conversationSchema := wire.Reflect(&sandbox.Conversation{})
	conversationSchema.Title = "Grove Sandbox Conversation"
	conversationSchema.Description = "Schema for conversations exchanged with the sandbox backend."

	conversationData, err := json.MarshalIndent(conversationSchema, "", "  ")
	if err != nil {
		log.Fatalf("Error marshaling conversation schema: %v", err)
	}

	if err := os.WriteFile("conversation.schema.json", conversationData, 0644); err != nil {
		log.Fatalf("Error writing conversation schema file: %v", err)
	}

	log.Printf("Successfully generated conversation schema at conversation.schema.json")
}
