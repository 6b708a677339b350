package bfcdkutil

import (
	"fmt"
	"os"
	"sort"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"
	"github.com/iancoleman/strcase"

	"github.com/batchforge/batchforge/bfcompile"
)

// NewStack creates the deployment stack for a compiled plan. The stack name is
// the CamelCase form of the name prefix, and every merged tag from the plan is
// applied to the whole stack so all resources inherit it.
func NewStack(scope constructs.Construct, out *bfcompile.Output) awscdk.Stack {
	stackName := strcase.ToCamel(out.Config.NamePrefix) + "Batch"

	stack := awscdk.NewStack(scope, jsii.String(stackName), &awscdk.StackProps{
		Env: &awscdk.Environment{
			Account: jsii.String(os.Getenv("CDK_DEFAULT_ACCOUNT")),
			Region:  jsii.String(out.Config.Region),
		},
		Description: jsii.String(fmt.Sprintf(
			"AWS Batch compute environment %s (region: %s)",
			out.Config.NamePrefix, out.Config.Region)),
	})

	for _, key := range SortedKeys(out.Names.Tags) {
		awscdk.Tags_Of(stack).Add(jsii.String(key), jsii.String(out.Names.Tags[key]), nil)
	}

	return stack
}

// SortedKeys returns the keys of tags in lexical order, so tag application and
// template output stay deterministic between synths.
func SortedKeys(tags map[string]string) []string {
	keys := make([]string, 0, len(tags))
	for k := range tags {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TagMap converts the merged tag set into the pointer map shape the Cfn layer
// expects.
func TagMap(tags map[string]string) *map[string]*string {
	converted := make(map[string]*string, len(tags))
	for k, v := range tags {
		converted[k] = jsii.String(v)
	}
	return &converted
}

// StringSlicePtr converts a string slice into the jsii pointer-slice shape.
func StringSlicePtr(vals []string) *[]*string {
	converted := make([]*string, 0, len(vals))
	for _, v := range vals {
		converted = append(converted, jsii.String(v))
	}
	return &converted
}
