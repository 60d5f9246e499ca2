package controllers

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/HSouheill/webinar_backend/models"
)

type fakeRequestManager struct {
	submittedBy string
	listedUID   string
	listedState string
	resolved    map[string]string
}

func (f *fakeRequestManager) Submit(_ context.Context, uid string, req models.CreateServiceRequest) (*models.ServiceRequest, error) {
	f.submittedBy = uid
	return &models.ServiceRequest{ID: primitive.NewObjectID(), UID: uid, Kind: req.Kind, Status: models.RequestPending}, nil
}

func (f *fakeRequestManager) List(_ context.Context, uid, status string) ([]models.ServiceRequest, error) {
	f.listedUID, f.listedState = uid, status
	return []models.ServiceRequest{}, nil
}

func (f *fakeRequestManager) Resolve(_ context.Context, id, status string) (*models.ServiceRequest, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return nil, models.ErrInvalidID
	}
	f.resolved[id] = status
	return &models.ServiceRequest{Status: status}, nil
}

func (f *fakeRequestManager) UserServices(_ context.Context, uid string) ([]models.UserService, error) {
	f.listedUID = uid
	return []models.UserService{}, nil
}

func TestServiceRequestController_Submit(t *testing.T) {
	manager := &fakeRequestManager{}
	rc := NewServiceRequestController(manager)

	body := `{"serviceId":"` + primitive.NewObjectID().Hex() + `","kind":"activation"}`
	c, rec := newContext(t, request{method: http.MethodPost, target: "/api/service-requests", body: body, uid: "ana-uid", role: models.RoleClient})
	require.NoError(t, rc.SubmitRequest(c))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "ana-uid", manager.submittedBy)

	c, rec = newContext(t, request{method: http.MethodPost, target: "/api/service-requests", body: `{"serviceId":"abc","kind":"upgrade"}`, uid: "ana-uid"})
	require.NoError(t, rc.SubmitRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceRequestController_AdminList(t *testing.T) {
	manager := &fakeRequestManager{}
	rc := NewServiceRequestController(manager)

	c, rec := newContext(t, request{method: http.MethodGet, target: "/api/service-requests?status=pending", role: models.RoleAdmin})
	require.NoError(t, rc.ListRequests(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, manager.listedUID)
	assert.Equal(t, models.RequestPending, manager.listedState)

	c, rec = newContext(t, request{method: http.MethodGet, target: "/api/service-requests?status=done", role: models.RoleAdmin})
	require.NoError(t, rc.ListRequests(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceRequestController_Resolve(t *testing.T) {
	manager := &fakeRequestManager{resolved: map[string]string{}}
	rc := NewServiceRequestController(manager)

	id := primitive.NewObjectID().Hex()
	c, rec := newContext(t, request{
		method: http.MethodPatch,
		target: "/api/service-requests/" + id,
		body:   `{"status":"approved"}`,
		role:   models.RoleAdmin,
		params: map[string]string{"id": id},
	})
	require.NoError(t, rc.ResolveRequest(c))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Request approved", decode(t, rec).Message)
	assert.Equal(t, models.RequestApproved, manager.resolved[id])

	c, rec = newContext(t, request{
		method: http.MethodPatch,
		target: "/api/service-requests/" + id,
		body:   `{"status":"pending"}`,
		params: map[string]string{"id": id},
	})
	require.NoError(t, rc.ResolveRequest(c))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServiceRequestController_UserServices(t *testing.T) {
	manager := &fakeRequestManager{}
	rc := NewServiceRequestController(manager)

	c, _ := newContext(t, request{method: http.MethodGet, target: "/api/user-services", uid: "ana-uid"})
	require.NoError(t, rc.MyServices(c))
	assert.Equal(t, "ana-uid", manager.listedUID)

	c, _ = newContext(t, request{method: http.MethodGet, target: "/api/user-services/bob-uid", uid: "admin", params: map[string]string{"uid": "bob-uid"}})
	require.NoError(t, rc.UserServices(c))
	assert.Equal(t, "bob-uid", manager.listedUID)
}
