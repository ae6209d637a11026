package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/a-peyrard/component/fn"
	"github.com/a-peyrard/component/option"
	"github.com/a-peyrard/component/reflectutils"
	"github.com/spf13/viper"
)

type (
	Options struct {
		prefix string
		file   string
	}

	// WithDefault is implemented by config structs filling their own defaults after loading.
	WithDefault interface {
		ApplyDefault()
	}
)

func WithEnvPrefix(prefix string) option.Option[Options] {
	return func(opts *Options) {
		opts.prefix = prefix
	}
}

// WithFile reads the configuration from a file (any format supported by viper) before
// applying the environment variables, which take precedence.
func WithFile(path string) option.Option[Options] {
	return func(opts *Options) {
		opts.file = path
	}
}

// Load builds a T from the optional config file and the environment. Every leaf field is bound
// to the variable PREFIX_PATH_TO_FIELD, in screaming snake case.
func Load[T any](opts ...option.Option[Options]) (*T, error) {
	options := option.Build(&Options{}, opts...)

	v := viper.New()
	if options.file != "" {
		v.SetConfigFile(options.file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("unable to read config file %s:\n\t%w", options.file, err)
		}
	}
	v.SetEnvPrefix(options.prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var vT T
	bindEnvs(v, options.prefix, reflect.New(reflect.TypeOf(vT)).Elem().Interface())

	if err := v.Unmarshal(&vT); err != nil {
		return nil, fmt.Errorf("unable to unmarshal config: %w", err)
	}

	withDefaultValueType := reflect.TypeOf((*WithDefault)(nil)).Elem()
	callApplyDefault := func(val reflect.Value, typ reflect.Type, _ []string) {
		if typ.Implements(withDefaultValueType) {
			if val.IsValid() {
				val.Interface().(WithDefault).ApplyDefault()
			}
		}
	}
	reflectutils.WalkStruct(
		&vT,
		fn.AllTriConsumer(
			reflectutils.CreateNilStructs,
			callApplyDefault,
		),
	)

	return &vT, nil
}

func bindEnvs(viperI *viper.Viper, envPrefix string, myStruct any, parts ...string) {
	ifv := reflect.ValueOf(myStruct)
	ift := reflect.TypeOf(myStruct)
	for i := 0; i < ift.NumField(); i++ {
		v := ifv.Field(i)
		t := ift.Field(i)
		if !t.IsExported() {
			continue
		}
		tv, ok := t.Tag.Lookup("mapstructure")
		if !ok {
			tv = t.Name
		}
		switch v.Kind() {
		case reflect.Struct:
			bindEnvs(viperI, envPrefix, v.Interface(), append(parts, tv)...)
		case reflect.Pointer:
			if t.Type.Elem().Kind() == reflect.Struct {
				bindEnvs(viperI, envPrefix, reflect.Zero(t.Type.Elem()).Interface(), append(parts, tv)...)
			}
		default:
			key := strings.Join(append(parts, tv), ".")
			join := strings.Join(append(parts, toScreamingSnakeCase(tv)), ".")
			_ = viperI.BindEnv(key, mergeWithEnvPrefix(envPrefix, join))
		}
	}
}

func mergeWithEnvPrefix(envPrefix string, in string) string {
	if envPrefix != "" {
		return strings.ToUpper(envPrefix + "_" + in)
	}

	return strings.ToUpper(in)
}

// toScreamingSnakeCase turns "PreloadConcurrency" into "PRELOAD_CONCURRENCY".
func toScreamingSnakeCase(in string) string {
	in = strings.TrimSpace(in)

	sb := strings.Builder{}
	sb.Grow(len(in) + len(in)/3)
	for i, b := range []byte(in) {
		shouldWrite := true
		needsSeparator := false

		switch {
		case 'a' <= b && b <= 'z':
			b -= 'a' - 'A'
		case 'A' <= b && b <= 'Z':
			needsSeparator = true
		case b == '_' || b == '-':
			shouldWrite = false
			needsSeparator = true
		case '0' <= b && b <= '9':
			needsSeparator = true
		}

		if i > 0 && needsSeparator {
			sb.WriteByte('_')
		}
		if shouldWrite {
			sb.WriteByte(b)
		}
	}

	return sb.String()
}
