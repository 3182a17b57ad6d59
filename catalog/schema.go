// SPDX-License-Identifier: MIT

package catalog

import "github.com/santhosh-tekuri/jsonschema/v5"

const schemaURL = "prodnet://document.schema.json"

// documentSchema constrains the shape of a document before it is decoded.
// Name references are resolved later, with suggestions for typos.
const documentSchema = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "type": "object",
  "required": ["goods", "recipes", "table"],
  "additionalProperties": false,
  "properties": {
    "goods": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name"],
        "additionalProperties": false,
        "properties": {
          "name":        {"type": "string", "minLength": 1},
          "fluid":       {"type": "boolean"},
          "temperature": {"type": "integer"},
          "cost":        {"type": "number"},
          "fuel_value":  {"type": "number", "minimum": 0},
          "spent_fuel":  {"type": "string"}
        }
      }
    },
    "entities": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "crafting_speed"],
        "additionalProperties": false,
        "properties": {
          "name":           {"type": "string", "minLength": 1},
          "crafting_speed": {"type": "number", "exclusiveMinimum": 0},
          "productivity":   {"type": "number", "minimum": 0},
          "energy_usage":   {"type": "number", "minimum": 0},
          "burns_fuel":     {"type": "boolean"}
        }
      }
    },
    "recipes": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "time"],
        "additionalProperties": false,
        "properties": {
          "name":                {"type": "string", "minLength": 1},
          "time":                {"type": "number", "exclusiveMinimum": 0},
          "cost":                {"type": "number", "minimum": 0},
          "mining_productivity": {"type": "boolean"},
          "ingredients":         {"type": "array", "items": {"$ref": "#/$defs/term"}},
          "products":            {"type": "array", "items": {"$ref": "#/$defs/term"}}
        }
      }
    },
    "table": {"$ref": "#/$defs/table"}
  },
  "$defs": {
    "term": {
      "type": "object",
      "required": ["goods", "amount"],
      "additionalProperties": false,
      "properties": {
        "goods":    {"type": "string"},
        "amount":   {"type": "number", "minimum": 0},
        "catalyst": {"type": "number", "minimum": 0}
      }
    },
    "table": {
      "type": "object",
      "additionalProperties": false,
      "properties": {
        "rows":  {"type": "array", "items": {"$ref": "#/$defs/row"}},
        "links": {"type": "array", "items": {"$ref": "#/$defs/link"}}
      }
    },
    "row": {
      "type": "object",
      "required": ["recipe"],
      "additionalProperties": false,
      "properties": {
        "recipe":          {"type": "string"},
        "entity":          {"type": "string"},
        "fuel":            {"type": "string"},
        "fixed_buildings": {"type": "number", "minimum": 0},
        "built_buildings": {"type": "integer", "minimum": 0},
        "enabled":         {"type": "boolean"},
        "modules": {
          "type": "object",
          "additionalProperties": false,
          "properties": {
            "speed":        {"type": "number"},
            "productivity": {"type": "number", "minimum": 0},
            "consumption":  {"type": "number"}
          }
        },
        "subgroup": {"$ref": "#/$defs/table"}
      }
    },
    "link": {
      "type": "object",
      "required": ["goods"],
      "additionalProperties": false,
      "properties": {
        "goods":     {"type": "string"},
        "amount":    {"type": "number"},
        "algorithm": {"enum": ["match", "allow-overproduction", "allow-overconsumption"]}
      }
    }
  }
}`

var compiledSchema = jsonschema.MustCompileString(schemaURL, documentSchema)
