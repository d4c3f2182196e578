package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Nestaway-Rentals/service-rental/internal/application"
	"github.com/Nestaway-Rentals/service-rental/internal/cache"
	"github.com/Nestaway-Rentals/service-rental/internal/common/auth"
	"github.com/Nestaway-Rentals/service-rental/internal/common/middleware"
	listingDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/listing"
	notificationDomain "github.com/Nestaway-Rentals/service-rental/internal/domain/notification"
	"github.com/Nestaway-Rentals/service-rental/internal/i18n"
	"github.com/Nestaway-Rentals/service-rental/internal/repository"
	"github.com/Nestaway-Rentals/service-rental/internal/storage"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type fakePutter struct {
	keys []string
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.keys = append(f.keys, *in.Key)
	return &s3.PutObjectOutput{}, nil
}

type testApp struct {
	router        *gin.Engine
	jwt           *auth.JWTManager
	listings      *repository.GormListingRepository
	notifications *repository.GormNotificationRepository
	putter        *fakePutter
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Dialector{DriverName: "sqlite", DSN: dsn}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(repository.Models()...))
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	log := zap.NewNop()
	jwtManager := auth.NewJWTManager("handler-test-secret", time.Hour)
	catalog, err := i18n.Load()
	require.NoError(t, err)

	bookingRepo := repository.NewGormBookingRepository(db)
	listingRepo := repository.NewGormListingRepository(db)
	profileRepo := repository.NewGormProfileRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)

	putter := &fakePutter{}
	uploader := storage.NewS3UploaderWithClient(putter, storage.Options{
		Bucket:        "rental-test",
		PublicBaseURL: "https://cdn.example.com",
	})

	bookingService := application.NewBookingService(bookingRepo, listingRepo, nil, log)
	listingService := application.NewListingService(listingRepo, cache.NoopListingCache{}, uploader, log)
	authService := application.NewAuthService(profileRepo, jwtManager, log)
	profileService := application.NewProfileService(profileRepo, jwtManager, log)
	notificationService := application.NewNotificationService(notificationRepo, catalog, log)

	router := gin.New()
	router.Use(middleware.RecoveryMiddleware(log), i18n.LocaleMiddleware(catalog))
	api := router.Group("")
	NewAuthHandler(authService).RegisterRoutes(api)
	NewProfileHandler(profileService).RegisterRoutes(api, jwtManager)
	NewListingHandler(listingService).RegisterRoutes(api, jwtManager)
	NewBookingHandler(bookingService).RegisterRoutes(api, jwtManager)
	NewNotificationHandler(notificationService).RegisterRoutes(api, jwtManager)
	NewHostHandler(bookingService).RegisterRoutes(api, jwtManager)
	NewI18nHandler(catalog).RegisterRoutes(api)

	return &testApp{
		router:        router,
		jwt:           jwtManager,
		listings:      listingRepo,
		notifications: notificationRepo,
		putter:        putter,
	}
}

func (a *testApp) token(t *testing.T, userID uuid.UUID, role auth.Role) string {
	t.Helper()
	token, err := a.jwt.GenerateAccessToken(userID, userID.String()+"@example.com", role)
	require.NoError(t, err)
	return token
}

func (a *testApp) send(req *http.Request, token string) *httptest.ResponseRecorder {
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func (a *testApp) doJSON(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, gjson.Result) {
	t.Helper()
	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := a.send(req, token)
	return w, gjson.Parse(w.Body.String())
}

func (a *testApp) form(t *testing.T, path, token string, values url.Values) (*httptest.ResponseRecorder, gjson.Result) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := a.send(req, token)
	return w, gjson.Parse(w.Body.String())
}

func (a *testApp) multipartImage(t *testing.T, path, token string, content []byte) (*httptest.ResponseRecorder, gjson.Result) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("image", "photo.bin")
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := a.send(req, token)
	return w, gjson.Parse(w.Body.String())
}

func (a *testApp) seedListing(t *testing.T, hostID uuid.UUID, title string, published bool) *listingDomain.Listing {
	t.Helper()
	l, err := listingDomain.NewListing(hostID, listingDomain.Details{
		Title:         title,
		PropertyType:  listingDomain.PropertyApartment,
		Location:      listingDomain.Location{City: "Lisbon", Country: "Portugal"},
		PricePerNight: 100,
		MaxGuests:     4,
		Bedrooms:      2,
		Beds:          2,
		Bathrooms:     1,
		Amenities:     []string{"wifi"},
	})
	require.NoError(t, err)
	if published {
		l.Publish()
	}
	require.NoError(t, a.listings.Save(context.Background(), l))
	return l
}

func (a *testApp) seedNotification(t *testing.T, recipientID uuid.UUID, message string) *notificationDomain.Notification {
	t.Helper()
	n, err := notificationDomain.NewNotification(recipientID, uuid.New(), "booking.confirmed", message)
	require.NoError(t, err)
	require.NoError(t, a.notifications.Save(context.Background(), n))
	return n
}
