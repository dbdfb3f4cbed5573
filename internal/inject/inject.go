package inject

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudfront"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/ssm"
	"github.com/dmorgan81/autologo/internal/export"
	"github.com/dmorgan81/autologo/internal/image"
	"github.com/dmorgan81/autologo/internal/log"
	"github.com/dmorgan81/autologo/internal/page"
	"github.com/dmorgan81/autologo/internal/param"
	"github.com/dmorgan81/autologo/internal/session"
	"github.com/dmorgan81/autologo/internal/store"
	"github.com/samber/do"
	"github.com/samber/lo"
)

var defaultModels = map[string]string{
	"gemini": image.DefaultGeminiModel,
	"dezgo":  "dreamshaper_8",
}

func Setup(ctx context.Context) *do.Injector {
	log := log.FromContextOrDiscard(ctx)

	injector := do.NewWithOpts(&do.InjectorOpts{
		Logf: func(format string, args ...any) {
			log.Debug(fmt.Sprintf(format, args...))
		},
	})

	do.Provide[aws.Config](injector, func(i *do.Injector) (aws.Config, error) {
		return config.LoadDefaultConfig(ctx)
	})
	do.Provide[*ssm.Client](injector, func(i *do.Injector) (*ssm.Client, error) {
		return ssm.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*s3.Client](injector, func(i *do.Injector) (*s3.Client, error) {
		return s3.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.Provide[*cloudfront.Client](injector, func(i *do.Injector) (*cloudfront.Client, error) {
		return cloudfront.NewFromConfig(do.MustInvoke[aws.Config](i)), nil
	})
	do.ProvideValue[*http.Client](injector, &http.Client{Timeout: 2 * time.Minute})

	do.Provide[param.Fetcher](injector, func(i *do.Injector) (param.Fetcher, error) {
		if os.Getenv("AUTOLOGO_PARAM_SOURCE") == "env" {
			return param.EnvFetcher{}, nil
		}
		return param.NewParameterStoreFetcher(i)
	})

	provider := lo.Ternary(os.Getenv("AUTOLOGO_PROVIDER") != "", os.Getenv("AUTOLOGO_PROVIDER"), "gemini")
	model := lo.Ternary(os.Getenv("AUTOLOGO_MODEL") != "", os.Getenv("AUTOLOGO_MODEL"), defaultModels[provider])
	do.ProvideNamedValue[string](injector, "provider", provider)
	do.ProvideNamedValue[string](injector, "model", model)
	do.ProvideNamed[string](injector, "gemini_key", func(i *do.Injector) (string, error) {
		return param.Secret(ctx, do.MustInvoke[param.Fetcher](i), "GEMINI_API_KEY")
	})
	do.ProvideNamed[string](injector, "dezgo_key", func(i *do.Injector) (string, error) {
		return param.Secret(ctx, do.MustInvoke[param.Fetcher](i), "DEZGO_KEY")
	})
	do.ProvideNamedValue[string](injector, "bucket", os.Getenv("BUCKET"))
	do.ProvideNamedValue[string](injector, "distribution", os.Getenv("DISTRIBUTION"))
	do.ProvideNamedValue[string](injector, "export_dir", lo.Ternary(os.Getenv("EXPORT_DIR") != "", os.Getenv("EXPORT_DIR"), "."))

	do.Provide[image.Generator](injector, func(i *do.Injector) (image.Generator, error) {
		switch p := do.MustInvokeNamed[string](i, "provider"); p {
		case "gemini":
			return image.NewGeminiGenerator(i)
		case "dezgo":
			return image.NewDezgoGenerator(i)
		default:
			return nil, fmt.Errorf("unknown image provider %q", p)
		}
	})
	do.Provide[session.Generator](injector, func(i *do.Injector) (session.Generator, error) {
		return image.NewInjectedService(i)
	})
	do.Provide[*session.Session](injector, session.NewSession)

	do.Provide[store.Uploader](injector, func(i *do.Injector) (store.Uploader, error) {
		if do.MustInvokeNamed[string](i, "bucket") != "" {
			return store.NewS3Uploader(i)
		}
		return store.NewFileUploader(i)
	})
	do.Provide[store.Invalidator](injector, func(i *do.Injector) (store.Invalidator, error) {
		if do.MustInvokeNamed[string](i, "distribution") != "" {
			return store.NewCloudFrontInvalidator(i)
		}
		return store.NopInvalidator{}, nil
	})
	do.Provide[*page.Templator](injector, page.NewTemplator)
	do.Provide[*export.Exporter](injector, export.NewExporter)

	return injector
}
