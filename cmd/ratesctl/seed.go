package main

import (
	"fmt"
	"log/slog"
	"math/rand"
	"net/http"
	"time"

	"github.com/SscSPs/currency_api/internal/core/domain"
	"github.com/bxcodec/faker/v3"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

var (
	seedPlatforms = []string{"ios", "android", "web"}
	seedEndpoints = []struct{ path, method string }{
		{"/api/rates", http.MethodGet},
		{"/api/convert", http.MethodGet},
		{"/api/device/info", http.MethodGet},
		{"/api/device/register", http.MethodPost},
	}
	seedVersions = []string{"1.0.0", "1.1.0", "1.2.3", "2.0.0"}
	seedStatuses = []int{http.StatusOK, http.StatusOK, http.StatusOK, http.StatusBadRequest, http.StatusNotFound, http.StatusInternalServerError}
)

type fakeDevice struct {
	Owner string `faker:"first_name"`
	Model string `faker:"word"`
}

func seedCommand() *cobra.Command {
	var (
		devices  int
		requests int
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Fill the audit tables with fake devices, requests and conversions",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			a, err := newApp(cmd.Context(), logger)
			if err != nil {
				return err
			}
			defer a.Close()

			ctx := cmd.Context()
			deviceIDs := make([]string, 0, devices)
			for i := 0; i < devices; i++ {
				var fd fakeDevice
				if err := faker.FakeData(&fd); err != nil {
					return fmt.Errorf("failed to generate device: %w", err)
				}
				name := fd.Owner + "'s " + fd.Model
				appVersion := seedVersions[rand.Intn(len(seedVersions))]
				platform := seedPlatforms[rand.Intn(len(seedPlatforms))]
				deviceType := "mobile"
				if platform == "web" {
					deviceType = "browser"
				}

				device, _, err := a.container.Device.RegisterDevice(ctx, domain.DeviceRegistration{
					DeviceID:   platform + "-" + uuid.NewString(),
					DeviceName: &name,
					DeviceType: &deviceType,
					Platform:   &platform,
					AppVersion: &appVersion,
				})
				if err != nil {
					return err
				}
				deviceIDs = append(deviceIDs, device.DeviceID)
			}

			written := 0
			for i := 0; i < requests; i++ {
				endpoint := seedEndpoints[rand.Intn(len(seedEndpoints))]
				status := seedStatuses[rand.Intn(len(seedStatuses))]
				reqCtx := domain.RequestContext{
					IPAddress: faker.IPv4(),
					UserAgent: "ratesctl-seed/1.0",
					StartedAt: time.Now().Add(-time.Duration(20+rand.Intn(400)) * time.Millisecond),
				}
				if len(deviceIDs) > 0 {
					reqCtx.DeviceID = deviceIDs[rand.Intn(len(deviceIDs))]
				}
				size := int64(200 + rand.Intn(4000))

				if a.container.AuditLogger.LogRequest(ctx, domain.RequestLogEntry{
					Request:        reqCtx,
					Endpoint:       endpoint.path,
					Method:         endpoint.method,
					Params:         domain.RequestParams{"seed": true},
					ResponseStatus: status,
					ResponseSize:   size,
				}) {
					written++
				}
				a.container.AuditLogger.UpdateStatistics(ctx, domain.StatisticSample{
					Endpoint:          endpoint.path,
					Method:            endpoint.method,
					Success:           status < http.StatusBadRequest,
					ResponseTimeMs:    time.Since(reqCtx.StartedAt).Milliseconds(),
					ResponseSizeBytes: size,
					DeviceID:          reqCtx.DeviceID,
				})

				if endpoint.path == "/api/convert" && status == http.StatusOK {
					a.container.AuditLogger.LogConversion(ctx, reqCtx, fakeConversion())
				}
			}

			logger.Info("Seed finished", slog.Int("devices", len(deviceIDs)), slog.Int("requests", written))
			return nil
		},
	}

	cmd.Flags().IntVar(&devices, "devices", 10, "Number of fake devices")
	cmd.Flags().IntVar(&requests, "requests", 200, "Number of fake API requests")
	return cmd
}

func fakeConversion() domain.Conversion {
	amount := decimal.NewFromInt(int64(1 + rand.Intn(1000)))
	rate := decimal.NewFromFloat(0.01 + rand.Float64()*100).Round(8)
	return domain.Conversion{
		Amount:          amount,
		From:            faker.Currency(),
		To:              faker.Currency(),
		Base:            "USD",
		ConvertedAmount: amount.Mul(rate).Round(8),
		Rate:            rate,
		Branch:          domain.ConversionTriangulated,
	}
}
