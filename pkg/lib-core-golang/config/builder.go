package config

import (
	"context"

	"github.com/pkg/errors"
	uuid "github.com/satori/go.uuid"

	"github.com/evgeny-myasishchev/ledger.accounts-service/pkg/lib-core-golang/diag"
)

// Builder is a tool to setup config
type Builder struct {
	appEnv         AppEnv
	paramsBuilders []*ParamsBuilder
}

// NewBuilder returns an instance of a config builder
func NewBuilder(appEnv AppEnv) *Builder {
	return &Builder{appEnv: appEnv}
}

// SourceFactory is a func that creates an instance of a source
type SourceFactory func() (Source, error)

// WithLocalSource creates a source factory for a local source
// that will point on configs dir
func (b *Builder) WithLocalSource() SourceFactory {
	return func() (Source, error) {
		return NewLocalSource(
			LocalOpts.WithAppEnv(b.appEnv),
			LocalOpts.WithIgnoreDefaultService(),
		)
	}
}

// NewParamsBuilder is a builder to to build params bound to a given source
func (b *Builder) NewParamsBuilder(sourceFactory SourceFactory) *ParamsBuilder {
	pb := &ParamsBuilder{
		params:        []param{},
		serviceName:   b.appEnv.ServiceName,
		sourceFactory: sourceFactory,
	}
	b.paramsBuilders = append(b.paramsBuilders, pb)
	return pb
}

// LoadConfig loads the config with sources and params built
func (b *Builder) LoadConfig() (ServiceConfig, error) {
	ctx := diag.ContextWithRequestID(context.Background(), uuid.NewV4().String())
	logger.Info(ctx, "Loading config values (env=%v)", b.appEnv.Name)

	values := map[param]paramValue{}
	for _, paramsBuilder := range b.paramsBuilders {
		source, err := paramsBuilder.sourceFactory()
		if err != nil {
			return nil, errors.Wrap(err, "Failed to create params source")
		}
		sourceValues, err := source.GetParameters(ctx, paramsBuilder.params)
		if err != nil {
			return nil, errors.Wrap(err, "Failed to fetch params")
		}
		logger.Debug(ctx, "Fetched %v (of %v requested) values", len(sourceValues), len(paramsBuilder.params))
		for _, p := range paramsBuilder.params {
			rawValue, ok := sourceValues[p]
			if !ok {
				return nil, errors.Errorf("Parameter %v not found", p)
			}
			value := p.emptyValue()
			if err := value.setValue(rawValue); err != nil {
				return nil, errors.Wrapf(err, "Failed to set parameter %v value", p)
			}
			values[p] = value
		}
	}
	return &serviceConfig{values: values}, nil
}

// ParamsBuilder is a tool to build params bound to particular source
type ParamsBuilder struct {
	// List of all built params
	params []param

	serviceName string

	sourceFactory SourceFactory
}

func (b *ParamsBuilder) appendParam(p param) param {
	b.params = append(b.params, p)
	return p
}

// NewParam returns an instance of a param builder
func (b *ParamsBuilder) NewParam(key string) *ParamBuilder {
	return &ParamBuilder{
		paramKey: key,
		paramSvc: b.serviceName,
		pb:       b,
	}
}

// ParamBuilder is a tool to build params
type ParamBuilder struct {
	paramKey string
	paramSvc string
	pb       *ParamsBuilder
}

// WithService binds param to a given service
// This is optional, by default will service that was used to
// initialize toplevel config
func (b *ParamBuilder) WithService(service string) *ParamBuilder {
	b.paramSvc = service
	return b
}

// Int creates an instance of an int param
func (b *ParamBuilder) Int() IntParam {
	p := newIntParam(b.paramKey, b.paramSvc)
	b.pb.appendParam(p)
	return p
}

// String creates an instance of a string param
func (b *ParamBuilder) String() StringParam {
	p := newStringParam(b.paramKey, b.paramSvc)
	b.pb.appendParam(p)
	return p
}

// Bool creates an instance of a bool param
func (b *ParamBuilder) Bool() BoolParam {
	p := newBoolParam(b.paramKey, b.paramSvc)
	b.pb.appendParam(p)
	return p
}
