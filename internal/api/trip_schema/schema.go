package tripSchema

import (
	"google.golang.org/genai"
)

// Type is the primitive type of a schema node.
type Type string

const (
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
	TypeObject  Type = "object"
)

// Node describes one value in the trip plan contract. Object properties keep
// their declaration order; validation and prompt output depend on it.
type Node struct {
	Type        Type
	Description string
	Properties  []Property
	Items       *Node
	MinItems    *int
	MaxItems    *int
}

type Property struct {
	Name     string
	Required bool
	Schema   *Node
}

// Property returns the named property schema, or nil.
func (n *Node) Property(name string) *Node {
	for _, p := range n.Properties {
		if p.Name == name {
			return p.Schema
		}
	}
	return nil
}

func (n *Node) requiredNames() []string {
	var names []string
	for _, p := range n.Properties {
		if p.Required {
			names = append(names, p.Name)
		}
	}
	return names
}

func str(desc string) *Node { return &Node{Type: TypeString, Description: desc} }
func integer(desc string) *Node { return &Node{Type: TypeInteger, Description: desc} }
func boolean(desc string) *Node { return &Node{Type: TypeBoolean, Description: desc} }

func req(name string, schema *Node) Property {
	return Property{Name: name, Required: true, Schema: schema}
}

func object(desc string, props ...Property) *Node {
	return &Node{Type: TypeObject, Description: desc, Properties: props}
}

func array(desc string, items *Node, minItems, maxItems *int) *Node {
	return &Node{Type: TypeArray, Description: desc, Items: items, MinItems: minItems, MaxItems: maxItems}
}

func bound(n int) *int { return &n }

const (
	MinAccommodations  = 1
	MinCityDescriptors = 3
	MaxCityDescriptors = 10
)

var tripPlanSchema = object("Structured trip plan",
	req("tripInfo", object("Trip summary",
		req("city", str("Destination city")),
		req("country", str("Destination country")),
		req("flightInfo", object("Outbound flight",
			req("departureDate", str("DD.MM.YYYY")),
			req("departureTime", str("HH:MM am/pm")),
			req("departureAirport", str("IATA code of the departure airport")),
			req("departureCity", str("Departure city")),
			req("departureCountry", str("Departure country")),
			req("arrivalAirport", str("IATA code of the arrival airport")),
			req("arrivalCity", str("Arrival city")),
			req("arrivalCountry", str("Arrival country")),
		)),
		req("duration", str("Trip duration, e.g. 8 days")),
		req("size", str("Group composition, e.g. 4 (2M,2F)")),
		req("activitiesCount", integer("Number of planned activities")),
		req("tripDates", object("Trip start and end",
			req("start", str("DD.MM.YYYY")),
			req("end", str("DD.MM.YYYY")),
		)),
	)),
	req("accommodations", array("Hotels in stay order",
		object("Hotel stay",
			req("hotelName", str("Realistic hotel name")),
			req("ratingLabel", str("e.g. Very good, Excellent")),
			req("checkIn", str("DD.MM.YYYY, HH:MM am/pm")),
			req("checkOut", str("DD.MM.YYYY, HH:MM am/pm")),
			req("nights", integer("Nights between check-in and check-out")),
			req("statusText", str("e.g. Confirmed")),
			req("hotelType", str("e.g. Luxury Hotel, Boutique Hotel, Resort")),
		),
		bound(MinAccommodations), nil)),
	req("activities", object("Day-by-day activities",
		req("totalCount", integer("Total number of activities")),
		req("days", array("One entry per trip day, chronological",
			object("Trip day",
				req("date", str("Day of month, DD")),
				req("day", str("Three-letter weekday, e.g. Mon")),
				req("month", str("Three-letter month, e.g. JAN")),
				req("isFirstDay", boolean("True only for the first day")),
				req("activities", array("Activities for the day",
					object("Activity",
						req("title", str("Activity title")),
						req("description", str("2-3 sentence description")),
						req("timing", str("Start time, e.g. 8:00 AM")),
						req("duration", str("e.g. 2 hours")),
						req("pickUp", str("e.g. From Hotel")),
						req("activityType", str("e.g. Temple Visit, Museum")),
					),
					nil, nil)),
			),
			nil, nil)),
	)),
	req("cityDescriptors", array("Keywords describing the city for image search",
		str("Landmark, style or natural feature"),
		bound(MinCityDescriptors), bound(MaxCityDescriptors))),
)

// TripPlanSchema returns the canonical trip plan contract. The returned tree is
// shared and must not be modified.
func TripPlanSchema() *Node {
	return tripPlanSchema
}

// ToGenAI converts the node into the Gemini response schema.
func (n *Node) ToGenAI() *genai.Schema {
	s := &genai.Schema{Description: n.Description}
	switch n.Type {
	case TypeString:
		s.Type = genai.TypeString
	case TypeNumber:
		s.Type = genai.TypeNumber
	case TypeInteger:
		s.Type = genai.TypeInteger
	case TypeBoolean:
		s.Type = genai.TypeBoolean
	case TypeArray:
		s.Type = genai.TypeArray
		if n.Items != nil {
			s.Items = n.Items.ToGenAI()
		}
		if n.MinItems != nil {
			s.MinItems = genai.Ptr(int64(*n.MinItems))
		}
		if n.MaxItems != nil {
			s.MaxItems = genai.Ptr(int64(*n.MaxItems))
		}
	case TypeObject:
		s.Type = genai.TypeObject
		s.Properties = make(map[string]*genai.Schema, len(n.Properties))
		for _, p := range n.Properties {
			s.Properties[p.Name] = p.Schema.ToGenAI()
			s.PropertyOrdering = append(s.PropertyOrdering, p.Name)
		}
		s.Required = n.requiredNames()
	}
	return s
}

// ToJSONSchema converts the node into a JSON Schema document.
func (n *Node) ToJSONSchema() map[string]any {
	s := map[string]any{"type": string(n.Type)}
	if n.Description != "" {
		s["description"] = n.Description
	}
	switch n.Type {
	case TypeArray:
		if n.Items != nil {
			s["items"] = n.Items.ToJSONSchema()
		}
		if n.MinItems != nil {
			s["minItems"] = *n.MinItems
		}
		if n.MaxItems != nil {
			s["maxItems"] = *n.MaxItems
		}
	case TypeObject:
		props := make(map[string]any, len(n.Properties))
		for _, p := range n.Properties {
			props[p.Name] = p.Schema.ToJSONSchema()
		}
		s["properties"] = props
		if required := n.requiredNames(); len(required) > 0 {
			s["required"] = required
		}
	}
	return s
}
