package authclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEndpointRefresher(t *testing.T) {
	testCases := []struct {
		name    string
		status  int
		body    string
		want    TokenResponse
		wantErr string
	}{
		{
			name:   "success",
			status: http.StatusOK,
			body:   `{"status":200,"message":"ok","data":{"accessToken":"A2","refreshToken":"R2","expiresIn":900}}`,
			want:   TokenResponse{AccessToken: "A2", RefreshToken: "R2", ExpiresIn: 900},
		},
		{
			name:    "rejected",
			status:  http.StatusUnauthorized,
			body:    `{"status":401,"message":"refresh token expired"}`,
			wantErr: "status 401",
		},
		{
			name:    "missing refresh token",
			status:  http.StatusOK,
			body:    `{"status":200,"data":{"accessToken":"A2"}}`,
			wantErr: ErrInvalidTokenResponse.Error(),
		},
		{
			name:    "not json",
			status:  http.StatusOK,
			body:    `<html>`,
			wantErr: "could not unmarshal",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
				assert.Empty(t, r.Header.Get("Authorization"))

				raw, _ := io.ReadAll(r.Body)
				var req map[string]string
				assert.NoError(t, json.Unmarshal(raw, &req))
				assert.Equal(t, "R1", req["refreshToken"])

				w.WriteHeader(tc.status)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer srv.Close()

			r := NewEndpointRefresher(srv.URL+"/api/auth/refresh", srv.Client())
			got, err := r.Refresh(context.Background(), "R1")
			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}
