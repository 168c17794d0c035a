package services

import (
	"github.com/sirupsen/logrus"
	qrcode "github.com/skip2/go-qrcode"
)

// QRService generates QR codes
type QRService struct {
	logger *logrus.Logger
}

// NewQRService creates a new QR service
func NewQRService(logger *logrus.Logger) *QRService {
	return &QRService{logger: logger}
}

// GenerateQR generates a QR code PNG for the given URL
func (s *QRService) GenerateQR(url string) ([]byte, error) {
	png, err := qrcode.Encode(url, qrcode.Medium, 256)
	if err != nil {
		s.logger.Errorf("Failed to generate QR code: %v", err)
		return nil, err
	}
	return png, nil
}
