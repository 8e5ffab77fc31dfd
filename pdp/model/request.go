// pdp/model/request.go
package model

// AccessRequest is the wire-facing shape of one authorization question:
// who (subject attributes), doing what (action), to what (resource
// attributes). It is converted into an AttributeContext before evaluation.
type AccessRequest struct {
	Subject     map[string]string `json:"subject" binding:"required"`
	Action      string            `json:"action" binding:"required"`
	Resource    map[string]string `json:"resource"`
	Environment map[string]string `json:"environment,omitempty"`
}

// Context builds the immutable AttributeContext for this request. The action
// is exposed as the conventional action.action attribute. Duplicate keys
// cannot occur here since map keys are unique per category, but the
// constructor still validates categories.
func (r AccessRequest) Context() (*AttributeContext, error) {
	attrs := make([]Attribute, 0, len(r.Subject)+len(r.Resource)+len(r.Environment)+1)
	for id, v := range r.Subject {
		attrs = append(attrs, Attribute{Category: CategorySubject, ID: id, Value: StringValue(v)})
	}
	attrs = append(attrs, Attribute{Category: CategoryAction, ID: "action", Value: StringValue(r.Action)})
	for id, v := range r.Resource {
		attrs = append(attrs, Attribute{Category: CategoryResource, ID: id, Value: StringValue(v)})
	}
	for id, v := range r.Environment {
		attrs = append(attrs, Attribute{Category: CategoryEnvironment, ID: id, Value: StringValue(v)})
	}
	return NewAttributeContext(attrs...)
}
