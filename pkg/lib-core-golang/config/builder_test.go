package config

import (
	"context"
	"errors"
	"testing"

	"github.com/bxcodec/faker/v3"
	"github.com/stretchr/testify/assert"
)

type fakeSource struct {
	values map[param]interface{}
	err    error
}

func (s *fakeSource) GetParameters(ctx context.Context, params []param) (map[param]interface{}, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.values, nil
}

func TestParamsBuilder(t *testing.T) {
	type fields struct {
		serviceName string
	}
	type testCase struct {
		name   string
		fields fields
		run    func(t *testing.T, b *ParamsBuilder)
	}
	tests := []func() testCase{
		func() testCase {
			serviceName := "svc-" + faker.Word()
			return testCase{
				name:   "NewParam",
				fields: fields{serviceName: serviceName},
				run: func(t *testing.T, b *ParamsBuilder) {
					paramKey := "param-key-" + faker.Word()
					paramBuilder := b.NewParam(paramKey)
					assert.Equal(t, &ParamBuilder{
						paramKey: paramKey,
						paramSvc: serviceName,
						pb:       b,
					}, paramBuilder)
				},
			}
		},
	}
	for _, tt := range tests {
		tt := tt()
		t.Run(tt.name, func(t *testing.T) {
			b := &ParamsBuilder{
				params:      []param{},
				serviceName: tt.fields.serviceName,
			}
			tt.run(t, b)
		})
	}
}

func TestParamBuilder(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T, b *ParamBuilder)
	}
	tests := []func() testCase{
		func() testCase {
			return testCase{
				name: "build int param",
				run: func(t *testing.T, b *ParamBuilder) {
					param := b.Int()
					assert.Equal(t, newIntParam(b.paramKey, b.paramSvc), param)
					assert.Contains(t, b.pb.params, param)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "build string param",
				run: func(t *testing.T, b *ParamBuilder) {
					param := b.String()
					assert.Equal(t, newStringParam(b.paramKey, b.paramSvc), param)
					assert.Contains(t, b.pb.params, param)
				},
			}
		},
		func() testCase {
			return testCase{
				name: "build bool param",
				run: func(t *testing.T, b *ParamBuilder) {
					param := b.Bool()
					assert.Equal(t, newBoolParam(b.paramKey, b.paramSvc), param)
					assert.Contains(t, b.pb.params, param)
				},
			}
		},
		func() testCase {
			customSvc := "custom-svc-" + faker.Word()
			return testCase{
				name: "build param with custom service",
				run: func(t *testing.T, b *ParamBuilder) {
					param := b.WithService(customSvc).String()
					assert.Equal(t, newStringParam(b.paramKey, customSvc), param)
				},
			}
		},
	}
	for _, tt := range tests {
		tt := tt()
		t.Run(tt.name, func(t *testing.T) {
			pb := &ParamsBuilder{
				params:      []param{},
				serviceName: "svc-" + faker.Word(),
			}
			b := pb.NewParam("key-" + faker.Word())
			tt.run(t, b)
		})
	}
}

func TestBuilder_LoadConfig(t *testing.T) {
	type testCase struct {
		name string
		run  func(t *testing.T)
	}
	appEnv := AppEnv{Name: "test", ServiceName: "svc-" + faker.Word()}
	tests := []func() testCase{
		func() testCase {
			stringValue := "string-val-" + faker.Word()
			intValue := int(faker.RandomUnixTime())
			return testCase{
				name: "load params from a source",
				run: func(t *testing.T) {
					builder := NewBuilder(appEnv)

					source := &fakeSource{values: map[param]interface{}{}}
					params := builder.NewParamsBuilder(func() (Source, error) {
						return source, nil
					})
					stringParam := params.NewParam("key1/val").String()
					intParam := params.NewParam("key2/val").Int()
					source.values[stringParam] = stringValue
					source.values[intParam] = intValue

					cfg, err := builder.LoadConfig()
					if !assert.NoError(t, err) {
						return
					}
					assert.Equal(t, stringValue, cfg.StringParam(stringParam).Value())
					assert.Equal(t, intValue, cfg.IntParam(intParam).Value())
				},
			}
		},
		func() testCase {
			return testCase{
				name: "fail if param is missing",
				run: func(t *testing.T) {
					builder := NewBuilder(appEnv)

					source := &fakeSource{values: map[param]interface{}{}}
					params := builder.NewParamsBuilder(func() (Source, error) {
						return source, nil
					})
					params.NewParam("key1/missing").String()

					cfg, err := builder.LoadConfig()
					assert.Nil(t, cfg)
					if !assert.Error(t, err) {
						return
					}
					assert.Contains(t, err.Error(), "not found")
				},
			}
		},
		func() testCase {
			sourceErr := errors.New(faker.Sentence())
			return testCase{
				name: "fail if source fails",
				run: func(t *testing.T) {
					builder := NewBuilder(appEnv)

					source := &fakeSource{err: sourceErr}
					params := builder.NewParamsBuilder(func() (Source, error) {
						return source, nil
					})
					params.NewParam("key1/val").String()

					cfg, err := builder.LoadConfig()
					assert.Nil(t, cfg)
					if !assert.Error(t, err) {
						return
					}
					assert.Contains(t, err.Error(), sourceErr.Error())
				},
			}
		},
		func() testCase {
			factoryErr := errors.New(faker.Sentence())
			return testCase{
				name: "fail if source factory fails",
				run: func(t *testing.T) {
					builder := NewBuilder(appEnv)

					params := builder.NewParamsBuilder(func() (Source, error) {
						return nil, factoryErr
					})
					params.NewParam("key1/val").String()

					cfg, err := builder.LoadConfig()
					assert.Nil(t, cfg)
					if !assert.Error(t, err) {
						return
					}
					assert.Contains(t, err.Error(), factoryErr.Error())
				},
			}
		},
		func() testCase {
			return testCase{
				name: "fail if value has a wrong type",
				run: func(t *testing.T) {
					builder := NewBuilder(appEnv)

					source := &fakeSource{values: map[param]interface{}{}}
					params := builder.NewParamsBuilder(func() (Source, error) {
						return source, nil
					})
					intParam := params.NewParam("key1/val").Int()
					source.values[intParam] = "not-an-int-" + faker.Word()

					cfg, err := builder.LoadConfig()
					assert.Nil(t, cfg)
					assert.Error(t, err)
				},
			}
		},
	}
	for _, ttFn := range tests {
		tt := ttFn()
		t.Run(tt.name, tt.run)
	}
}
