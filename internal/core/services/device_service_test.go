package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/SscSPs/currency_api/internal/apperrors"
	"github.com/SscSPs/currency_api/internal/core/domain"
	portssvc "github.com/SscSPs/currency_api/internal/core/ports/services"
	"github.com/SscSPs/currency_api/internal/core/services"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

type DeviceServiceTestSuite struct {
	suite.Suite
	repo    *MockDeviceRepository
	now     time.Time
	service portssvc.DeviceSvcFacade
}

func (suite *DeviceServiceTestSuite) SetupTest() {
	suite.repo = new(MockDeviceRepository)
	suite.now = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	suite.service = services.NewDeviceService(suite.repo, services.WithDeviceClock(func() time.Time { return suite.now }))
}

func TestDeviceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(DeviceServiceTestSuite))
}

func strPtr(s string) *string { return &s }

func (suite *DeviceServiceTestSuite) TestRegisterDevice_NormalizesInput() {
	ctx := context.Background()
	expected := domain.DeviceRegistration{DeviceID: "ios-1", Platform: strPtr("iOS")}
	device := &domain.Device{ID: 1, DeviceID: "ios-1", Platform: strPtr("iOS"), LastActive: suite.now}
	suite.repo.On("UpsertDevice", ctx, expected, suite.now).Return(device, true, nil).Once()

	got, created, err := suite.service.RegisterDevice(ctx, domain.DeviceRegistration{
		DeviceID:   "  ios-1 ",
		DeviceName: strPtr("   "),
		Platform:   strPtr(" iOS "),
	})

	suite.Require().NoError(err)
	suite.True(created)
	suite.Equal(device, got)
	suite.repo.AssertExpectations(suite.T())
}

func (suite *DeviceServiceTestSuite) TestRegisterDevice_RequiresID() {
	_, _, err := suite.service.RegisterDevice(context.Background(), domain.DeviceRegistration{DeviceID: " "})
	suite.True(errors.Is(err, apperrors.ErrValidation))
	suite.repo.AssertNotCalled(suite.T(), "UpsertDevice", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *DeviceServiceTestSuite) TestGetDevice() {
	ctx := context.Background()
	suite.repo.On("FindDeviceByExternalID", ctx, "missing").Return(nil, apperrors.NewNotFoundError("device not found")).Once()

	_, err := suite.service.GetDevice(ctx, "missing")
	suite.True(errors.Is(err, apperrors.ErrNotFound))

	_, err = suite.service.GetDevice(ctx, "")
	suite.True(errors.Is(err, apperrors.ErrValidation))
}

func (suite *DeviceServiceTestSuite) TestListDevices_ClampsPaging() {
	ctx := context.Background()
	suite.repo.On("ListDevices", ctx, 50, 0).Return([]domain.Device{}, nil).Once()
	suite.repo.On("ListDevices", ctx, 100, 20).Return([]domain.Device{}, nil).Once()

	_, err := suite.service.ListDevices(ctx, 0, -3)
	suite.NoError(err)
	_, err = suite.service.ListDevices(ctx, 5000, 20)
	suite.NoError(err)
	suite.repo.AssertExpectations(suite.T())
}
