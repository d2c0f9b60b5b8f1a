// SPDX-License-Identifier: MPL-2.0

package respawn

import "strings"

const terminator = "--"

// DefaultValueFlags are the node runtime flags whose value may follow as a
// separate token.
var DefaultValueFlags = []string{
	"-r", "--require",
	"--import",
	"--loader", "--experimental-loader",
	"-C", "--conditions",
	"--title",
}

type (
	// Result is the outcome of Reconcile.
	Result struct {
		// Ready is true when argv already satisfies every flag.
		Ready bool
		// Argv is the argument vector to run with. It equals the input when
		// Ready is true.
		Argv []string
	}

	// ReconcileOption configures Reconcile.
	ReconcileOption func(*reconciler)

	reconciler struct {
		valueFlags map[string]struct{}
	}
)

// WithValueFlags declares runtime flags that take the following token as
// their value, so "-r dotenv/config" is read as one flag.
func WithValueFlags(flags ...string) ReconcileOption {
	return func(r *reconciler) {
		for _, f := range flags {
			r.valueFlags[f] = struct{}{}
		}
	}
}

// Reconcile checks that the runtime region of argv satisfies every flag in
// required and forced. A flag without "=" is satisfied by the same flag with
// or without a value; a flag with "=" only by the identical token.
//
// Unsatisfied flags that appear after the script (and before a "--") are
// moved into the runtime region, keeping the token the caller wrote. Flags
// appearing nowhere are added too, required first, then forced, without
// duplicates. Corrections go directly after argv[0]; flags already present
// keep their order.
func Reconcile(required, argv, forced []string, opts ...ReconcileOption) Result {
	r := &reconciler{valueFlags: map[string]struct{}{}}
	for _, o := range opts {
		o(r)
	}
	wanted := unique(append(append([]string{}, required...), forced...))

	end := r.runtimeEnd(argv)
	var runtimeFlags []string
	if end > 1 {
		runtimeFlags = argv[1:end]
	}

	var missing []string
	for _, flag := range wanted {
		if indexSatisfying(runtimeFlags, flag) < 0 {
			missing = append(missing, flag)
		}
	}
	if len(missing) == 0 {
		return Result{Ready: true, Argv: append([]string(nil), argv...)}
	}

	var scriptArgs, rest []string
	hasScript := end < len(argv) && argv[end] != terminator
	if hasScript {
		tail := argv[end+1:]
		cut := len(tail)
		for i, tok := range tail {
			if tok == terminator {
				cut = i
				break
			}
		}
		scriptArgs = append([]string(nil), tail[:cut]...)
		rest = tail[cut:]
	} else if end < len(argv) {
		rest = argv[end:]
	}

	inserted := make([]string, 0, len(missing))
	for _, flag := range missing {
		if i := indexSatisfying(scriptArgs, flag); i >= 0 {
			n := 1
			if r.takesValue(scriptArgs[i]) && i+1 < len(scriptArgs) {
				n = 2
			}
			inserted = append(inserted, scriptArgs[i:i+n]...)
			scriptArgs = append(scriptArgs[:i], scriptArgs[i+n:]...)
			continue
		}
		inserted = append(inserted, flag)
	}

	out := make([]string, 0, len(argv)+len(inserted))
	if len(argv) > 0 {
		out = append(out, argv[0])
	}
	out = append(out, inserted...)
	out = append(out, runtimeFlags...)
	if hasScript {
		out = append(out, argv[end])
		out = append(out, scriptArgs...)
	}
	out = append(out, rest...)
	return Result{Argv: out}
}

// runtimeEnd returns the index of the first token after the runtime flags.
// A declared value flag written without "=" also spans the next token.
func (r *reconciler) runtimeEnd(argv []string) int {
	if len(argv) == 0 {
		return 0
	}
	i := 1
	for i < len(argv) && strings.HasPrefix(argv[i], "-") && argv[i] != terminator {
		if r.takesValue(argv[i]) && i+1 < len(argv) {
			i++
		}
		i++
	}
	return i
}

func (r *reconciler) takesValue(tok string) bool {
	_, ok := r.valueFlags[tok]
	return ok
}

func indexSatisfying(tokens []string, flag string) int {
	for i, tok := range tokens {
		if satisfies(tok, flag) {
			return i
		}
	}
	return -1
}

func satisfies(tok, flag string) bool {
	if tok == flag {
		return true
	}
	if strings.Contains(flag, "=") {
		return false
	}
	return strings.HasPrefix(tok, flag+"=")
}

func unique(flags []string) []string {
	seen := make(map[string]struct{}, len(flags))
	out := flags[:0]
	for _, f := range flags {
		if f == "" {
			continue
		}
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}
