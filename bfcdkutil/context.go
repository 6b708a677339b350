package bfcdkutil

import (
	"fmt"

	"github.com/aws/aws-cdk-go/awscdk/v2"
	"github.com/aws/constructs-go/constructs/v10"
	"github.com/aws/jsii-runtime-go"

	"github.com/batchforge/batchforge/bfcompile"
)

// outputContextKey is the well-known key used to store the compiled plan in
// the construct tree.
const outputContextKey = "__bfcdkutil_output"

// StoreOutput stores the compiled plan in the app's context so constructs
// anywhere in the tree can retrieve it via OutputFromScope without passing it
// explicitly.
func StoreOutput(app awscdk.App, out *bfcompile.Output) {
	app.Node().SetContext(jsii.String(outputContextKey), out)
}

// OutputFromScope retrieves the compiled plan from the construct tree.
// It panics if no plan was stored, which indicates the app was not set up
// through NewStack/StoreOutput.
func OutputFromScope(scope constructs.Construct) *bfcompile.Output {
	val := scope.Node().TryGetContext(jsii.String(outputContextKey))
	if val == nil {
		panic("bfcdkutil: compiled output not found in construct tree - was StoreOutput called?")
	}
	out, ok := val.(*bfcompile.Output)
	if !ok {
		panic(fmt.Sprintf("bfcdkutil: compiled output has unexpected type %T", val))
	}
	return out
}
