package billing

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/webhook"

	"github.com/skyview-tv/skyview/internal/config"
	"github.com/skyview-tv/skyview/internal/db"
	"github.com/skyview-tv/skyview/internal/models"
)

const testWebhookSecret = "whsec_test_secret"

func setupTestService(t *testing.T) (*Service, *db.DB, *db.Repositories, func()) {
	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations(sqlDB, "file://../../migrations"))

	repos := db.NewRepositories(database)
	service := NewService(repos, config.StripeConfig{WebhookSecret: testWebhookSecret})

	cleanup := func() {
		_ = database.Close()
	}
	return service, database, repos, cleanup
}

func seedUser(t *testing.T, repos *db.Repositories) *models.User {
	t.Helper()
	user := models.NewUser("Ada", fmt.Sprintf("%s@example.com", uuid.NewString()), "hash")
	require.NoError(t, repos.Users.Create(context.Background(), user))
	return user
}

func seedTrialPackage(t *testing.T, repos *db.Repositories) *models.Package {
	t.Helper()
	pkg := &models.Package{
		ID:                uuid.New(),
		Name:              "Free Trial",
		Interval:          models.IntervalTrial,
		IsFreeTrial:       true,
		TrialDurationDays: 7,
	}
	require.NoError(t, repos.Packages.Create(context.Background(), pkg))
	return pkg
}

func seedPaidPackage(t *testing.T, repos *db.Repositories, name, interval string, price float64) *models.Package {
	t.Helper()
	pkg := &models.Package{
		ID:       uuid.New(),
		Name:     name,
		Interval: interval,
		Price:    price,
	}
	require.NoError(t, repos.Packages.Create(context.Background(), pkg))
	return pkg
}

func TestStartCheckout_TrialActivatesImmediately(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	trial := seedTrialPackage(t, repos)

	url, err := service.StartCheckout(ctx, user.ID, trial.ID)
	require.NoError(t, err)
	assert.Empty(t, url)

	sub, err := service.GetSubscription(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusActive, sub.Status)
	assert.Equal(t, "Free Trial", sub.PackageName)
	require.NotNil(t, sub.EndDate)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 0, 7), *sub.EndDate, time.Minute)

	loaded, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsSubscribed)
}

func TestStartCheckout_TrialOnlyOnce(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	trial := seedTrialPackage(t, repos)

	_, err := service.StartCheckout(ctx, user.ID, trial.ID)
	require.NoError(t, err)

	_, err = service.StartCheckout(ctx, user.ID, trial.ID)
	assert.True(t, IsTrialAlreadyUsed(err))
}

func TestStartCheckout_PaidWithoutKeys(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	pkg := seedPaidPackage(t, repos, "Standard", models.IntervalMonth, 9.99)

	_, err := service.StartCheckout(ctx, user.ID, pkg.ID)
	assert.True(t, IsNotConfigured(err))
}

func TestStartCheckout_UnknownPackage(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	user := seedUser(t, repos)
	_, err := service.StartCheckout(context.Background(), user.ID, uuid.New())
	assert.True(t, IsPackageNotFound(err))
}

func TestListPackages_HidesTrialAfterSubscription(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	trial := seedTrialPackage(t, repos)
	seedPaidPackage(t, repos, "Standard", models.IntervalMonth, 9.99)

	packages, err := service.ListPackages(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, packages, 2)

	_, err = service.StartCheckout(ctx, user.ID, trial.ID)
	require.NoError(t, err)

	packages, err = service.ListPackages(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, packages, 1)
	assert.Equal(t, "Standard", packages[0].Name)
}

// signEvent builds a webhook delivery with a valid v1 signature header
func signEvent(payload []byte) string {
	now := time.Now()
	sig := webhook.ComputeSignature(now, payload, testWebhookSecret)
	return fmt.Sprintf("t=%d,v1=%x", now.Unix(), sig)
}

func checkoutCompletedPayload(eventID string, userID, packageID uuid.UUID) []byte {
	return []byte(fmt.Sprintf(`{
		"id": %q,
		"api_version": %q,
		"type": "checkout.session.completed",
		"data": {
			"object": {
				"id": "cs_test_1",
				"client_reference_id": %q,
				"subscription": {
					"id": "sub_test_1",
					"metadata": {"package_id": %q}
				}
			}
		}
	}`, eventID, stripe.APIVersion, userID, packageID))
}

func TestHandleWebhook_BadSignature(t *testing.T) {
	service, _, _, cleanup := setupTestService(t)
	defer cleanup()

	err := service.HandleWebhook(context.Background(), []byte(`{}`), "t=1,v1=deadbeef")
	assert.True(t, IsBadSignature(err))
}

func TestHandleWebhook_CheckoutCompleted(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	pkg := seedPaidPackage(t, repos, "Standard", models.IntervalMonth, 9.99)

	payload := checkoutCompletedPayload("evt_1", user.ID, pkg.ID)
	require.NoError(t, service.HandleWebhook(ctx, payload, signEvent(payload)))

	sub, err := service.GetSubscription(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, pkg.ID, sub.PackageID)
	require.NotNil(t, sub.EndDate)
	assert.WithinDuration(t, time.Now().UTC().AddDate(0, 1, 0), *sub.EndDate, time.Minute)

	loaded, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, loaded.IsSubscribed)
}

func TestHandleWebhook_RedeliveryIsIdempotent(t *testing.T) {
	service, database, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	pkg := seedPaidPackage(t, repos, "Standard", models.IntervalMonth, 9.99)

	payload := checkoutCompletedPayload("evt_2", user.ID, pkg.ID)
	require.NoError(t, service.HandleWebhook(ctx, payload, signEvent(payload)))
	require.NoError(t, service.HandleWebhook(ctx, payload, signEvent(payload)))

	var count int64
	result := database.WithContext(ctx).Model(&models.Subscription{}).
		Where("user_id = ?", user.ID.String()).Count(&count)
	require.NoError(t, result.Error)
	assert.Equal(t, int64(1), count)
}

func TestHandleWebhook_UnknownEventIsAcknowledged(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	payload := []byte(fmt.Sprintf(`{"id":"evt_3","api_version":%q,"type":"invoice.paid","data":{"object":{}}}`,
		stripe.APIVersion))
	require.NoError(t, service.HandleWebhook(ctx, payload, signEvent(payload)))

	processed, err := repos.StripeEvents.IsProcessed(ctx, "evt_3")
	require.NoError(t, err)
	assert.True(t, processed)
}

func TestCancelSubscription_KeepsEndDate(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	trial := seedTrialPackage(t, repos)
	_, err := service.StartCheckout(ctx, user.ID, trial.ID)
	require.NoError(t, err)

	sub, err := service.GetSubscription(ctx, user.ID)
	require.NoError(t, err)

	require.NoError(t, service.CancelSubscription(ctx, sub.ID, user.ID))

	_, err = service.GetSubscription(ctx, user.ID)
	assert.True(t, IsSubscriptionNotFound(err))

	loaded, err := repos.Users.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, loaded.IsSubscribed)

	canceled, err := repos.Subscriptions.GetByIDAndUser(ctx, sub.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.SubscriptionStatusCanceled, canceled.Status)
	assert.NotNil(t, canceled.CancellationDate)
	assert.NotNil(t, canceled.EndDate)
}

func TestChangePackage_SwapsPlan(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	monthly := seedPaidPackage(t, repos, "Standard", models.IntervalMonth, 9.99)
	yearly := seedPaidPackage(t, repos, "Annual", models.IntervalYear, 99.99)

	payload := checkoutCompletedPayload("evt_4", user.ID, monthly.ID)
	require.NoError(t, service.HandleWebhook(ctx, payload, signEvent(payload)))

	sub, err := service.GetSubscription(ctx, user.ID)
	require.NoError(t, err)

	changed, err := service.ChangePackage(ctx, sub.ID, user.ID, yearly.ID)
	require.NoError(t, err)
	assert.Equal(t, "Annual", changed.PackageName)
	require.NotNil(t, changed.EndDate)
	assert.WithinDuration(t, time.Now().UTC().AddDate(1, 0, 0), *changed.EndDate, time.Minute)
}

func TestChangePackage_RejectsTrialTarget(t *testing.T) {
	service, _, repos, cleanup := setupTestService(t)
	defer cleanup()

	ctx := context.Background()
	user := seedUser(t, repos)
	monthly := seedPaidPackage(t, repos, "Standard", models.IntervalMonth, 9.99)
	trial := seedTrialPackage(t, repos)

	payload := checkoutCompletedPayload("evt_5", user.ID, monthly.ID)
	require.NoError(t, service.HandleWebhook(ctx, payload, signEvent(payload)))

	sub, err := service.GetSubscription(ctx, user.ID)
	require.NoError(t, err)

	_, err = service.ChangePackage(ctx, sub.ID, user.ID, trial.ID)
	assert.True(t, IsTrialAlreadyUsed(err))
}
