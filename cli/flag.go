package cli

import (
	"github.com/ka2n/hiroi/api"
	"github.com/morikuni/failure/v2"
	"github.com/spf13/pflag"
)

// errorPolicyFlag selects what collect does with unresolvable links
type errorPolicyFlag struct {
	Policy api.ErrorPolicy
}

// String implements pflag.Value.
func (f *errorPolicyFlag) String() string {
	if f.Policy == "" {
		return api.AbortOnError.String()
	}
	return f.Policy.String()
}

func (f *errorPolicyFlag) Set(value string) error {
	p, err := api.ParseErrorPolicy(value)
	if err != nil {
		return failure.Wrap(err, failure.WithCode(InvalidErrorPolicy))
	}
	f.Policy = p
	return nil
}

func (f *errorPolicyFlag) Type() string {
	return "policy"
}

var _ pflag.Value = &errorPolicyFlag{}
