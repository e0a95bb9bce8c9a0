// Package model defines the domain entities and wire types of the activities API.
//
// # Domain Entities
//
//   - Activity: an extracurricular offering with schedule, advisory capacity
//     and an ordered participant list
//   - ActivityDirectory: the name-keyed mapping served by GET /activities
//
// # JSON Serialization
//
// The activity name is the directory key and is not repeated inside the
// record:
//
//	{
//	    "Chess Club": {
//	        "description": "...",
//	        "schedule": "...",
//	        "max_participants": 12,
//	        "participants": ["michael@mergington.edu"]
//	    }
//	}
//
// Errors are RFC 9457 Problem Details (see errors.go).
package model
