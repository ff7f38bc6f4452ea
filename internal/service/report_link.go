package service

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ReportLinkService emite y valida tokens firmados para descargar reportes.
// El token viaja como query param en el enlace que recibe el usuario.
type ReportLinkService struct {
	secret []byte
	ttl    time.Duration
	issuer string
}

var (
	ErrLinkInvalid = errors.New("report link invalid")
	ErrLinkExpired = errors.New("report link expired")
)

type reportClaims struct {
	ReportID int64 `json:"rid"`
	jwt.RegisteredClaims
}

func NewReportLinkService(secret string, ttl time.Duration) *ReportLinkService {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ReportLinkService{
		secret: []byte(secret),
		ttl:    ttl,
		issuer: "numero-tg",
	}
}

// Sign genera un token de descarga para el reporte dado.
func (s *ReportLinkService) Sign(reportID int64) (string, error) {
	if len(s.secret) == 0 {
		return "", ErrLinkInvalid
	}
	now := time.Now().UTC()
	claims := reportClaims{
		ReportID: reportID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   strconv.FormatInt(reportID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify valida el token y devuelve el ID de reporte que autoriza.
func (s *ReportLinkService) Verify(tokenStr string) (int64, error) {
	if len(s.secret) == 0 {
		return 0, ErrLinkInvalid
	}
	var claims reportClaims
	token, err := jwt.ParseWithClaims(tokenStr, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrLinkInvalid
		}
		return s.secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return 0, ErrLinkExpired
		}
		return 0, ErrLinkInvalid
	}
	if !token.Valid || claims.Issuer != s.issuer || claims.ReportID <= 0 {
		return 0, ErrLinkInvalid
	}
	return claims.ReportID, nil
}
