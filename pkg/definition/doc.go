// Package definition loads declarative form definitions from JSON or YAML
// files. Each form becomes a form.Definition whose DTO is a Values bag seeded
// with the declared defaults.
//
//	forms:
//	  contact:
//	    method: POST
//	    action: {route: contact_submit}
//	    elements:
//	      - {type: string, name: name, label: contact.name, required: true}
//	      - type: array
//	        name: topic
//	        options: {support: Support, sales: Sales}
package definition
