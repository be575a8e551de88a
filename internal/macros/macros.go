// Macro substitution for writer name templates
package macros

import (
	"strings"

	dyn "perfdatad/internal/value"
)

// One named object macros can resolve against. A macro "$host.name$" selects
// the resolver named "host" and walks the remaining dotted path through its
// fields.
type Resolver struct {
	Name   string
	Object dyn.Object
}

// Applied to every resolved value before it is spliced into the result
type Escaper func(dyn.Value) dyn.Value

// Template syntax error, reported at config load time
type TemplateError struct {
	Template string
	Reason   string
}

func (err *TemplateError) Error() string {
	return "invalid macro template '" + err.Template + "': " + err.Reason
}

// Checks that every '$' in the template has a closing partner
func Validate(template string) (err error) {
	dollars := strings.Count(template, "$")
	if dollars%2 != 0 {
		err = &TemplateError{Template: template, Reason: "closing '$' not found"}
	}
	return
}

// Substitutes every $...$ macro in the template. "$$" yields a literal '$'.
// Macros no resolver can satisfy become the empty string.
func Resolve(template string, resolvers []Resolver, escaper Escaper) (result string, err error) {
	var builder strings.Builder

	rest := template
	for {
		opening := strings.IndexByte(rest, '$')
		if opening < 0 {
			builder.WriteString(rest)
			break
		}
		builder.WriteString(rest[:opening])
		rest = rest[opening+1:]

		closing := strings.IndexByte(rest, '$')
		if closing < 0 {
			err = &TemplateError{Template: template, Reason: "closing '$' not found"}
			return
		}

		macro := rest[:closing]
		rest = rest[closing+1:]

		if macro == "" {
			builder.WriteByte('$')
			continue
		}

		resolved, found := resolveMacro(macro, resolvers)
		if !found {
			continue
		}
		if escaper != nil {
			resolved = escaper(resolved)
		}
		builder.WriteString(resolved.String())
	}

	result = builder.String()
	return
}

// Tries each resolver in order, first hit wins
func resolveMacro(macro string, resolvers []Resolver) (resolved dyn.Value, found bool) {
	segments := strings.Split(macro, ".")

	for _, resolver := range resolvers {
		if segments[0] != resolver.Name || resolver.Object == nil {
			continue
		}

		current := dyn.NewObject(resolver.Object)
		walked := true
		for _, field := range segments[1:] {
			object := current.AsObject()
			if object == nil {
				walked = false
				break
			}
			next, getErr := object.GetFieldByName(field, false, dyn.DebugInfo{})
			if getErr != nil {
				walked = false
				break
			}
			current = next
		}
		if walked {
			resolved = current
			found = true
			return
		}
	}
	return
}
