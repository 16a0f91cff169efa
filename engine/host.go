package engine

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/salience-go/callback"
)

// instantiateHost registers the env module whose lxaStatusCallback import
// is the trampoline for every session's status notifications.
func instantiateHost(ctx context.Context, r wazero.Runtime, d *callback.Dispatcher) (api.Module, error) {
	i32 := api.ValueTypeI32
	return r.NewHostModuleBuilder(HostModule).
		NewFunctionBuilder().
		WithGoModuleFunction(api.GoModuleFunc(func(ctx context.Context, mod api.Module, stack []uint64) {
			session := api.DecodeU32(stack[0])
			status := api.DecodeI32(stack[1])
			msgPtr := api.DecodeU32(stack[2])

			Logger().Debug("status callback",
				zap.Uint32("session", session),
				zap.Int32("status", status))

			ret := d.Trampoline(ctx, NewWazeroMemory(mod.Memory()), session, status, msgPtr)
			stack[0] = api.EncodeI32(ret)
		}), []api.ValueType{i32, i32, i32}, []api.ValueType{i32}).
		WithParameterNames("param", "status", "message").
		Export(StatusCallbackFn).
		Instantiate(ctx)
}
