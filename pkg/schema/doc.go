// Package schema describes flow files and the parameters their steps accept.
//
// A flow file lists the steps of an approval flow in order:
//
//	min_length: 20
//	steps:
//	  - kind: confirm
//	    message: Are you sure you want to add task?
//	  - kind: challenge
//	  - kind: timed_review
//	    duration: 3s
//
// Every key of a step other than kind and name is a parameter. Parameters are
// checked against the Schema the step kind declares:
//
//	params := schema.Schema{
//	    "message":  schema.Optional(schema.String()),
//	    "duration": schema.Optional(schema.Duration()),
//	}
//
//	if err := schema.Validate(params, step.Params); err != nil {
//	    // every offending key is listed in a *schema.AggregateError
//	}
//
// The package only depends on yaml.v3; turning a File into runnable steps is the
// job of the registry package.
package schema
