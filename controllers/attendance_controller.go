package controllers

import (
	"absensi/dto"
	apperrors "absensi/errors"
	"absensi/middleware"
	"absensi/models"
	"absensi/response"
	"absensi/services"
	"absensi/services/logger"
	"absensi/types"
	"absensi/validator"

	"github.com/gin-gonic/gin"
)

type AttendanceController struct {
	service  *services.AttendanceService
	uploader services.PhotoUploader
	logger   logger.Logger
}

// NewAttendanceController wires the handlers; uploader may be nil, in which
// case selfie photos sent with a check-in are ignored.
func NewAttendanceController(service *services.AttendanceService, uploader services.PhotoUploader, log logger.Logger) *AttendanceController {
	return &AttendanceController{
		service:  service,
		uploader: uploader,
		logger:   log,
	}
}

// CheckIn godoc
// @Summary      Absen masuk
// @Tags         attendance
// @Accept       json,mpfd
// @Produce      json
// @Param        status    formData  string  false  "HADIR|IZIN|SAKIT|ALPHA"
// @Param        lat       formData  number  false  "Latitude"
// @Param        lon       formData  number  false  "Longitude"
// @Param        accuracy  formData  number  false  "Accuracy in meters"
// @Param        photo     formData  file    false  "Selfie"
// @Success      200  {object}  response.Response{data=dto.AttendanceResponse}
// @Failure      401  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Security     BearerAuth
// @Router       /attendance/check-in [post]
func (a *AttendanceController) CheckIn(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	var input dto.CheckInInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&input); err != nil {
			c.Error(apperrors.NewAppError(apperrors.ErrCodeValidation, "Data tidak valid", err))
			return
		}
	}
	if err := validator.ValidateCheckIn(&input); err != nil {
		c.Error(err)
		return
	}

	// Skip the upload when the day is already taken; the insert below
	// still decides the race.
	existing, err := a.service.GetToday(c.Request.Context(), identity.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	if existing != nil {
		c.Error(apperrors.ErrAlreadyCheckedIn)
		return
	}

	photoURL, err := a.uploadSelfie(c, identity.UserID)
	if err != nil {
		c.Error(err)
		return
	}

	record, err := a.service.CheckIn(c.Request.Context(), identity.UserID, services.CheckInOptions{
		Status:    input.Status,
		Latitude:  input.Latitude,
		Longitude: input.Longitude,
		Accuracy:  input.Accuracy,
		PhotoURL:  photoURL,
	})
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, toAttendanceResponse(record))
}

// CheckOut godoc
// @Summary      Absen pulang
// @Tags         attendance
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CheckOutInput  false  "Optional status"
// @Success      200  {object}  response.Response{data=dto.AttendanceResponse}
// @Failure      400  {object}  response.Response
// @Failure      401  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Security     BearerAuth
// @Router       /attendance/check-out [post]
func (a *AttendanceController) CheckOut(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	var input dto.CheckOutInput
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBind(&input); err != nil {
			c.Error(apperrors.NewAppError(apperrors.ErrCodeValidation, "Data tidak valid", err))
			return
		}
	}
	if err := validator.ValidateCheckOut(&input); err != nil {
		c.Error(err)
		return
	}

	record, err := a.service.CheckOut(c.Request.Context(), identity.UserID, input.Status)
	if err != nil {
		c.Error(err)
		return
	}
	response.Success(c, toAttendanceResponse(record))
}

// GetToday godoc
// @Summary      Absensi hari ini
// @Description  data is null when the caller has not checked in today
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  response.Response{data=dto.AttendanceResponse}
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /attendance/today [get]
func (a *AttendanceController) GetToday(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	record, err := a.service.GetToday(c.Request.Context(), identity.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	if record == nil {
		response.Success(c, nil)
		return
	}
	response.Success(c, toAttendanceResponse(record))
}

// GetHistory godoc
// @Summary      Riwayat absensi
// @Tags         attendance
// @Produce      json
// @Success      200  {object}  response.ResponseTotal{data=[]dto.AttendanceResponse}
// @Failure      401  {object}  response.Response
// @Security     BearerAuth
// @Router       /attendance/history [get]
func (a *AttendanceController) GetHistory(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	records, err := a.service.ListHistory(c.Request.Context(), identity.UserID)
	if err != nil {
		c.Error(err)
		return
	}
	list := make([]dto.AttendanceResponse, 0, len(records))
	for i := range records {
		list = append(list, toAttendanceResponse(&records[i]))
	}
	response.SuccessWithTotal(c, list, len(list))
}

// GetAll godoc
// @Summary      Semua absensi (admin)
// @Tags         admin
// @Produce      json
// @Param        q  query  string  false  "Filter by user name or email"
// @Success      200  {object}  response.ResponseTotal{data=[]dto.AdminAttendanceResponse}
// @Failure      403  {object}  response.Response
// @Security     BearerAuth
// @Router       /attendance/admin [get]
func (a *AttendanceController) GetAll(c *gin.Context) {
	identity, _ := middleware.CurrentIdentity(c)

	records, err := a.service.ListAll(c.Request.Context(), identity, c.Query("q"))
	if err != nil {
		c.Error(err)
		return
	}
	list := make([]dto.AdminAttendanceResponse, 0, len(records))
	for i := range records {
		item := dto.AdminAttendanceResponse{AttendanceResponse: toAttendanceResponse(&records[i])}
		if u := records[i].User; u != nil {
			item.User = &types.AttendanceUserResponse{ID: u.ID, Name: u.Name, Email: u.Email}
		}
		list = append(list, item)
	}
	response.SuccessWithTotal(c, list, len(list))
}

func (a *AttendanceController) uploadSelfie(c *gin.Context, userID uint) (string, error) {
	file, err := c.FormFile("photo")
	if err != nil {
		return "", nil
	}
	if a.uploader == nil {
		a.logger.Debug("photo upload disabled, dropping selfie of user_id=%d", userID)
		return "", nil
	}
	src, err := file.Open()
	if err != nil {
		return "", apperrors.Validation("Foto tidak dapat dibaca")
	}
	defer src.Close()

	url, err := a.uploader.UploadSelfie(c.Request.Context(), userID, src)
	if err != nil {
		return "", apperrors.NewAppError(apperrors.ErrCodeUploadFailed, "Upload foto gagal", err)
	}
	return url, nil
}

// toAttendanceResponse renders Date from its own calendar fields. Stores hand
// it back either as midnight in the reference timezone or, for a postgres
// date column, as midnight UTC; both carry the right year, month and day.
func toAttendanceResponse(record *models.Attendance) dto.AttendanceResponse {
	return dto.AttendanceResponse{
		ID:             record.ID,
		UserID:         record.UserID,
		Date:           record.Date.Format("2006-01-02"),
		CheckInAt:      record.CheckInAt,
		CheckOutAt:     record.CheckOutAt,
		CheckInStatus:  record.CheckInStatus,
		CheckOutStatus: record.CheckOutStatus,
		PhotoURL:       record.PhotoURL,
		Latitude:       record.Latitude,
		Longitude:      record.Longitude,
		Accuracy:       record.Accuracy,
		State:          models.GetAttendanceState(record).Name(),
	}
}
