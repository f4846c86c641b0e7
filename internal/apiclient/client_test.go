package apiclient_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nfrund/authportal/internal/apiclient"
	"github.com/nfrund/authportal/internal/domain"
	"github.com/nfrund/authportal/internal/session"
	"github.com/nfrund/authportal/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedInStore(t *testing.T, api *testutils.FakeAPI, user domain.UserSummary) *session.MemoryStore {
	t.Helper()
	store := session.NewMemoryStore()
	require.NoError(t, session.Save(store, api.Token(user.ID), &user))
	return store
}

func TestCall_AttachesBearerToken(t *testing.T) {
	api := testutils.NewFakeAPI(t)
	user := api.AddUser(domain.UserSummary{Name: "A", Email: "a@x.com"}, "secret1")
	store := signedInStore(t, api, user)
	client := apiclient.New(api.URL())

	_, err := client.Profile(context.Background(), store)
	require.NoError(t, err)

	reqs := api.RequestsTo(apiclient.EndpointProfile)
	require.Len(t, reqs, 1)
	assert.Equal(t, "Bearer "+session.Token(store), reqs[0].Authorization)
}

func TestCall_NoTokenNoHeader(t *testing.T) {
	api := testutils.NewFakeAPI(t)
	client := apiclient.New(api.URL())

	_, err := client.Login(context.Background(), session.NewMemoryStore(), apiclient.Credentials{Email: "nobody@x.com", Password: "x"})
	require.Error(t, err)

	reqs := api.RequestsTo(apiclient.EndpointLogin)
	require.Len(t, reqs, 1)
	assert.Empty(t, reqs[0].Authorization)
	assert.Equal(t, "application/json", reqs[0].ContentType)
}

func TestCall_UnauthorizedClearsStoreForEveryEndpoint(t *testing.T) {
	type call func(c *apiclient.Client, s session.Store) error
	ctx := context.Background()

	endpoints := map[string]call{
		apiclient.EndpointProfile: func(c *apiclient.Client, s session.Store) error {
			_, err := c.Profile(ctx, s)
			return err
		},
		apiclient.EndpointUsers: func(c *apiclient.Client, s session.Store) error {
			_, err := c.Users(ctx, s)
			return err
		},
		apiclient.EndpointUsers + "/1": func(c *apiclient.Client, s session.Store) error {
			_, err := c.User(ctx, s, "1")
			return err
		},
		apiclient.EndpointChangePassword: func(c *apiclient.Client, s session.Store) error {
			_, err := c.ChangePassword(ctx, s, apiclient.PasswordChange{NewPassword: "newpass"})
			return err
		},
		apiclient.EndpointCompleteProfile: func(c *apiclient.Client, s session.Store) error {
			_, err := c.CompleteProfile(ctx, s, apiclient.ProfileCompletion{Age: 30, Gender: "other"})
			return err
		},
		apiclient.EndpointAnalyticsOverview: func(c *apiclient.Client, s session.Store) error {
			_, err := c.AnalyticsOverview(ctx, s)
			return err
		},
		apiclient.EndpointAnalyticsRecent: func(c *apiclient.Client, s session.Store) error {
			_, err := c.AnalyticsRecent(ctx, s)
			return err
		},
	}

	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		for endpoint, do := range endpoints {
			t.Run(fmt.Sprintf("%d %s", status, endpoint), func(t *testing.T) {
				api := testutils.NewFakeAPI(t)
				user := api.AddUser(domain.UserSummary{Name: "A", Email: "a@x.com"}, "secret1")
				store := signedInStore(t, api, user)
				api.Fail(endpoint, status)

				err := do(apiclient.New(api.URL()), store)

				require.Error(t, err)
				assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
				assert.Equal(t, apiclient.KindUnauthorized, apiclient.Classify(err))
				assert.Equal(t, status, apiclient.Status(err))
				assert.Zero(t, store.Len(), "both session keys must be gone")
			})
		}
	}
}

func TestCall_InvalidTokenIsRejected(t *testing.T) {
	api := testutils.NewFakeAPI(t)
	store := session.NewMemoryStore()
	require.NoError(t, session.Save(store, "abc", &domain.UserSummary{ID: "1"}))

	_, err := apiclient.New(api.URL()).Users(context.Background(), store)

	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
	assert.Zero(t, store.Len())
}

func TestCall_HTTPErrorCarriesBodyMessage(t *testing.T) {
	api := testutils.NewFakeAPI(t)
	user := api.AddUser(domain.UserSummary{Name: "A", Email: "a@x.com"}, "secret1")
	store := signedInStore(t, api, user)

	_, err := apiclient.New(api.URL()).User(context.Background(), store, "999")

	var httpErr *apiclient.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "User not found", httpErr.Message)
	assert.ErrorIs(t, err, apiclient.ErrNotFound)
	assert.Equal(t, apiclient.KindNotFound, apiclient.Classify(err))
	assert.Equal(t, 2, store.Len(), "only 401/403 clear the session")
}

func TestCall_ServerErrorIsOther(t *testing.T) {
	api := testutils.NewFakeAPI(t)
	api.Fail(apiclient.EndpointAnalyticsGender, http.StatusInternalServerError)

	_, err := apiclient.New(api.URL()).AnalyticsGender(context.Background(), session.NewMemoryStore())

	assert.Equal(t, apiclient.KindOther, apiclient.Classify(err))
	assert.Equal(t, http.StatusInternalServerError, apiclient.Status(err))
	assert.Equal(t, "Internal Server Error", apiclient.Message(err))
}

func TestCall_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	store := session.NewMemoryStore()
	require.NoError(t, session.Save(store, "abc", &domain.UserSummary{ID: "1"}))

	_, err := apiclient.New(url).Profile(context.Background(), store)

	var transportErr *apiclient.TransportError
	require.True(t, errors.As(err, &transportErr))
	assert.Equal(t, apiclient.KindNetwork, apiclient.Classify(err))
	assert.Equal(t, 2, store.Len())
}

func TestCall_SurvivesCanceledContext(t *testing.T) {
	api := testutils.NewFakeAPI(t)
	user := api.AddUser(domain.UserSummary{Name: "A", Email: "a@x.com"}, "secret1")
	store := signedInStore(t, api, user)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := apiclient.New(api.URL()).Profile(ctx, store)

	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, apiclient.KindNone, apiclient.Classify(nil))
	assert.Equal(t, apiclient.KindOther, apiclient.Classify(errors.New("boom")))
	assert.Equal(t, "network", apiclient.KindNetwork.String())
}

func TestEndpoints_RoundTrip(t *testing.T) {
	ctx := context.Background()
	api := testutils.NewFakeAPI(t)
	client := apiclient.New(api.URL())
	store := session.NewMemoryStore()

	res, err := client.Signup(ctx, store, apiclient.Registration{Name: "Ann", Email: "ann@x.com", Password: "secret1"})
	require.NoError(t, err)
	require.NotEmpty(t, res.Token)
	assert.True(t, res.User.HasPassword)
	assert.False(t, res.User.ProfileComplete())
	require.NoError(t, session.Save(store, res.Token, res.User))

	completed, err := client.CompleteProfile(ctx, store, apiclient.ProfileCompletion{Age: 30, Gender: "female"})
	require.NoError(t, err)
	assert.True(t, completed.ProfileComplete())

	updated, err := client.UpdateProfile(ctx, store, apiclient.ProfileUpdate{
		Name:    "Ann B",
		Age:     "31",
		Gender:  "female",
		Picture: &apiclient.FilePart{Filename: "me.png", ContentType: "image/png", Data: []byte("png")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Ann B", updated.Name)
	assert.Equal(t, 31, updated.Age)
	assert.Equal(t, "/uploads/me.png", updated.ProfilePicture)
	reqs := api.RequestsTo(apiclient.EndpointProfile)
	require.NotEmpty(t, reqs)
	assert.Contains(t, reqs[len(reqs)-1].ContentType, "multipart/form-data")

	msg, err := client.ChangePassword(ctx, store, apiclient.PasswordChange{CurrentPassword: "secret1", NewPassword: "secret2"})
	require.NoError(t, err)
	assert.Equal(t, "Password changed successfully!", msg)

	login, err := client.Login(ctx, session.NewMemoryStore(), apiclient.Credentials{Email: "ann@x.com", Password: "secret2"})
	require.NoError(t, err)
	assert.Equal(t, res.User.ID, login.User.ID)

	users, err := client.Users(ctx, store)
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.False(t, users[0].CreatedAt.IsZero())

	one, err := client.User(ctx, store, res.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "ann@x.com", one.Email)

	overview, err := client.AnalyticsOverview(ctx, store)
	require.NoError(t, err)
	assert.Equal(t, 1, overview.TotalUsers)

	recent, err := client.AnalyticsRecent(ctx, store)
	require.NoError(t, err)
	assert.Len(t, recent, 1)

	assert.Equal(t, api.URL()+"/auth/google", client.GoogleAuthURL())
}

func TestUsers_AcceptsBareArray(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":7,"name":"Seven","email":"s@x.com","password":"hash"}]`))
	}))
	defer srv.Close()

	users, err := apiclient.New(srv.URL).Users(context.Background(), session.NewMemoryStore())

	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "7", users[0].ID)
	assert.True(t, users[0].HasPassword)
}

func TestProfile_AcceptsWrappedUser(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"user":{"id":"3","name":"G","email":"g@x.com","provider":"google","password":""}}`))
	}))
	defer srv.Close()

	u, err := apiclient.New(srv.URL + "/").Profile(context.Background(), session.NewMemoryStore())

	require.NoError(t, err)
	assert.Equal(t, "3", u.ID)
	assert.True(t, u.IsGoogle())
	assert.False(t, u.NeedsCurrentPassword())
}
