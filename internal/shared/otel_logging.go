package shared

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/exporters/otlp/otlplog/otlploggrpc"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutlog"
	otellog "go.opentelemetry.io/otel/log"
	"go.opentelemetry.io/otel/log/global"
	sdklog "go.opentelemetry.io/otel/sdk/log"
	"google.golang.org/grpc/credentials"

	"populationservice/internal/config"
)

func grpcLogOptions() []otlploggrpc.Option {
	options := []otlploggrpc.Option{
		otlploggrpc.WithEndpoint(config.OTELCollectorURL),
		otlploggrpc.WithCompressor(config.OTELCompressor),
	}

	if config.OTELExporterInsecure {
		options = append(options, otlploggrpc.WithInsecure())
	} else {
		options = append(options, otlploggrpc.WithTLSCredentials(
			credentials.NewClientTLSFromCert(nil, ""),
		))
	}

	return options
}

// InitializeLoggingProvider builds the OTEL logger provider: records batch to
// the collector when one is configured, otherwise to stdout so local runs
// still see the structured stream.
func InitializeLoggingProvider(ctx context.Context) (*sdklog.LoggerProvider, error) {
	var exporter sdklog.Exporter
	var err error

	if config.OTELExporterEnabled {
		exporter, err = otlploggrpc.New(ctx, grpcLogOptions()...)
	} else {
		exporter, err = stdoutlog.New()
	}
	if err != nil {
		slog.Error("Unable to initialize OTEL log exporter", config.ErrAttr(err))
		return nil, err
	}

	provider := sdklog.NewLoggerProvider(
		sdklog.WithProcessor(sdklog.NewBatchProcessor(exporter)),
		sdklog.WithResource(serviceResource()),
	)

	global.SetLoggerProvider(provider)

	return provider, nil
}

// OTLPLogHandler fans slog records out to a console handler and the OTEL
// logger provider, so one slog call feeds both the terminal and the
// collector pipeline.
type OTLPLogHandler struct {
	consoleHandler slog.Handler
	logger         otellog.Logger
	attrs          []slog.Attr
}

func NewOTLPLogHandler(consoleHandler slog.Handler, provider *sdklog.LoggerProvider) *OTLPLogHandler {
	return &OTLPLogHandler{
		consoleHandler: consoleHandler,
		logger:         provider.Logger(config.ServiceName),
	}
}

func (h *OTLPLogHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.consoleHandler.Enabled(ctx, level)
}

func (h *OTLPLogHandler) Handle(ctx context.Context, rec slog.Record) error {
	if err := h.consoleHandler.Handle(ctx, rec); err != nil {
		return err
	}

	var otelRec otellog.Record
	otelRec.SetTimestamp(rec.Time)
	otelRec.SetObservedTimestamp(rec.Time)
	otelRec.SetBody(otellog.StringValue(rec.Message))
	otelRec.SetSeverity(otelSeverity(rec.Level))
	otelRec.SetSeverityText(rec.Level.String())

	for _, attr := range h.attrs {
		otelRec.AddAttributes(otelAttribute(attr))
	}
	rec.Attrs(func(attr slog.Attr) bool {
		otelRec.AddAttributes(otelAttribute(attr))
		return true
	})

	h.logger.Emit(ctx, otelRec)
	return nil
}

func (h *OTLPLogHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &OTLPLogHandler{
		consoleHandler: h.consoleHandler.WithAttrs(attrs),
		logger:         h.logger,
		attrs:          append(append([]slog.Attr{}, h.attrs...), attrs...),
	}
}

func (h *OTLPLogHandler) WithGroup(name string) slog.Handler {
	return &OTLPLogHandler{
		consoleHandler: h.consoleHandler.WithGroup(name),
		logger:         h.logger,
		attrs:          h.attrs,
	}
}

// otelSeverity - slog levels are offset by 9 from the OTEL severity numbers
// (slog INFO 0 == OTEL SeverityInfo 9).
func otelSeverity(level slog.Level) otellog.Severity {
	return otellog.Severity(int(level) + 9)
}

func otelAttribute(attr slog.Attr) otellog.KeyValue {
	switch attr.Value.Kind() {
	case slog.KindBool:
		return otellog.Bool(attr.Key, attr.Value.Bool())
	case slog.KindInt64:
		return otellog.Int64(attr.Key, attr.Value.Int64())
	case slog.KindFloat64:
		return otellog.Float64(attr.Key, attr.Value.Float64())
	default:
		return otellog.String(attr.Key, attr.Value.String())
	}
}
