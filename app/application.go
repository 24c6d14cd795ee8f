package app

import (
	"context"

	"github.com/iov-one/testament"
	"github.com/iov-one/testament/x"
	"github.com/iov-one/testament/x/bank"
	"github.com/iov-one/testament/x/batch"
	"github.com/iov-one/testament/x/guard"
	"github.com/iov-one/testament/x/router"
	"github.com/iov-one/testament/x/safe"
	"github.com/iov-one/testament/x/sigs"
	"github.com/iov-one/testament/x/utils"
	"github.com/iov-one/testament/x/whitelist"
	"github.com/iov-one/testament/x/will"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/tendermint/tendermint/libs/log"
)

// Config selects how the application is built.
type Config struct {
	// Name is reported by abci Info.
	Name string
	// Debug returns full error messages to clients.
	Debug bool
	// Logger defaults to a no-op logger.
	Logger log.Logger
	// Registerer receives the transaction metrics. Metrics are disabled
	// when nil.
	Registerer prometheus.Registerer
}

// Controllers gives access to the extension state of an application.
type Controllers struct {
	Bank    *bank.BaseController
	Wallets *safe.Controller
	Guards  *guard.Controller
	Router  *router.Controller
}

// NewControllers wires the extension controllers together.
func NewControllers() Controllers {
	b := bank.NewController()
	wallets := safe.NewController(b)
	guards := guard.NewController(b)
	return Controllers{
		Bank:    b,
		Wallets: wallets,
		Guards:  guards,
		Router:  router.NewController(b, wallets, guards, whitelist.StoreChecker{}),
	}
}

// DefaultCodec returns a codec that knows every message of the application.
func DefaultCodec() *Codec {
	c := NewCodec()
	msgs := []func() testament.Msg{
		func() testament.Msg { return &bank.SendMsg{} },
		func() testament.Msg { return &bank.CreateTokenMsg{} },
		func() testament.Msg { return &bank.MintMsg{} },
		func() testament.Msg { return &whitelist.UpdateMsg{} },
		func() testament.Msg { return &whitelist.UpdateConfigurationMsg{} },
		func() testament.Msg { return &safe.CreateSafeMsg{} },
		func() testament.Msg { return &safe.SetGuardMsg{} },
		func() testament.Msg { return &safe.EnableModuleMsg{} },
		func() testament.Msg { return &safe.DisableModuleMsg{} },
		func() testament.Msg { return &router.CreateWillMsg{} },
		func() testament.Msg { return &router.DeleteWillMsg{} },
		func() testament.Msg { return &router.WithdrawMsg{} },
		func() testament.Msg { return &router.UpdateDistributionMsg{} },
		func() testament.Msg { return &router.SetBeneficiariesMsg{} },
		func() testament.Msg { return &router.SetConfigMsg{} },
		func() testament.Msg { return &router.SetActivationTriggerMsg{} },
		func() testament.Msg { return &router.SetNameNoteMsg{} },
		func() testament.Msg { return &router.ActivateWillMsg{} },
		func() testament.Msg { return &router.UpdateConfigurationMsg{} },
		func() testament.Msg { return &router.SetWillFeeMsg{} },
		func() testament.Msg { return &router.SetWillLimitMsg{} },
		func() testament.Msg { return &router.SetBeneficiaryLimitMsg{} },
		func() testament.Msg { return &router.AddOperatorMsg{} },
		func() testament.Msg { return &router.RemoveOperatorMsg{} },
	}
	for _, fn := range msgs {
		c.Register(fn)
	}
	return c
}

// Authenticator returns the authentication used by the message handlers:
// transaction signers and the wallet a transaction executes as.
func Authenticator() x.Authenticator {
	return x.ChainAuth(sigs.Authenticate{}, safe.Authenticate{})
}

// Routes registers every message handler of the application.
func Routes(ctrls Controllers) *Router {
	auth := Authenticator()
	r := NewRouter()
	bank.RegisterRoutes(r, auth, ctrls.Bank)
	whitelist.RegisterRoutes(r, auth)
	safe.RegisterRoutes(r, auth, ctrls.Wallets, ctrls.Guards)
	router.RegisterRoutes(r, auth, ctrls.Router)
	return r
}

// QueryRouter registers every query of the application.
func QueryRouter(ctrls Controllers) testament.QueryRouter {
	qr := testament.NewQueryRouter()
	qr.RegisterAll(
		sigs.RegisterQuery,
		bank.RegisterQuery,
		whitelist.RegisterQuery,
		safe.RegisterQuery,
		guard.RegisterQuery,
		will.RegisterQuery,
		ctrls.Router.RegisterQuery,
	)
	return qr
}

// Stack wraps the handler with the decorators every transaction passes.
// Signatures and the wallet header are read from the outer transaction,
// so both decorators run before the batch is split.
func Stack(ctrls Controllers, metrics *utils.Metrics, h testament.Handler) testament.Handler {
	return ChainDecorators(
		utils.NewLogging(),
		utils.NewRecovery(),
		metrics,
		utils.NewSavepoint().OnCheck(),
		utils.NewSavepoint().OnDeliver(),
		sigs.NewDecorator(),
		safe.NewDecorator(sigs.Authenticate{}, ctrls.Wallets, ctrls.Guards),
		batch.NewDecorator(),
		utils.NewActionTagger(),
	).WithHandler(h)
}

// Initializers load the genesis state of every extension.
func Initializers(ctrls Controllers) testament.Initializer {
	return testament.ChainInitializers{
		&bank.Initializer{Ctrl: ctrls.Bank},
		whitelist.Initializer{},
		router.Initializer{},
	}
}

// New builds the application on top of given store.
func New(conf Config, db testament.CommitKVStore) (BaseApp, Controllers) {
	ctrls := NewControllers()

	var metrics *utils.Metrics
	if conf.Registerer != nil {
		metrics = utils.NewMetrics("testament", conf.Registerer)
	}
	logger := conf.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	name := conf.Name
	if name == "" {
		name = "testament"
	}

	store := NewStoreApp(name, db, QueryRouter(ctrls), context.Background()).
		WithLogger(logger).
		WithInit(Initializers(ctrls))
	handler := Stack(ctrls, metrics, Routes(ctrls))
	return NewBaseApp(store, DefaultCodec().TxDecoder(), handler, conf.Debug), ctrls
}
