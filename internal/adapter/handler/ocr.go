package handler

import (
	"io"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/aigymos/gym-console/errors"
	ocrDTO "github.com/aigymos/gym-console/internal/adapter/dto/ocr"
	"github.com/aigymos/gym-console/internal/adapter/presenter"
	ocrUsecase "github.com/aigymos/gym-console/internal/usecase/ocr"
)

// PhotoFormField is the multipart field carrying the bioimpedance photo
const PhotoFormField = "photo"

// OCR handles body composition extraction requests
type OCR struct {
	ocrService    ocrUsecase.Service
	maxImageBytes int64
	logger        *zap.Logger
}

// NewOCRHandler creates a new OCR handler. Uploads are read up to one byte
// past maxImageBytes so the service can reject oversized photos.
func NewOCRHandler(ocrService ocrUsecase.Service, maxImageBytes int64, logger *zap.Logger) *OCR {
	if maxImageBytes <= 0 {
		maxImageBytes = 10 << 20
	}
	return &OCR{
		ocrService:    ocrService,
		maxImageBytes: maxImageBytes,
		logger:        logger,
	}
}

// ExtractText handles POST /ocr/body-composition/text
// @Summary      Extract body composition from text
// @Description  Runs the field extractor over text already recognised on the client
// @Tags         OCR
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request  body      ocr.ExtractTextRequest  true  "Recognised text"
// @Success      200  {object}  common.SuccessResponse{data=entities.BodyCompositionOcrResult}
// @Failure      400  {object}  common.ErrorResponse
// @Router       /ocr/body-composition/text [post]
func (h *OCR) ExtractText(c echo.Context) error {
	var req ocrDTO.ExtractTextRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	result, err := h.ocrService.ExtractText(c.Request().Context(), req.RawText)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, result)
}

// ExtractImage handles POST /ocr/body-composition/image
// @Summary      Extract body composition from a photo
// @Description  Archives the photo, sends it to the text recognizer and extracts the fields
// @Tags         OCR
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        photo  formData  file  true  "JPEG, PNG or WebP photo of the bioimpedance print"
// @Success      200  {object}  common.SuccessResponse{data=entities.BodyCompositionOcrResult}
// @Failure      400  {object}  common.ErrorResponse
// @Failure      415  {object}  common.ErrorResponse
// @Failure      502  {object}  common.ErrorResponse
// @Router       /ocr/body-composition/image [post]
func (h *OCR) ExtractImage(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	fileHeader, err := c.FormFile(PhotoFormField)
	if err != nil {
		return HandleError(h.logger, c, errors.ErrOCREmptyInput())
	}

	file, err := fileHeader.Open()
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.maxImageBytes+1))
	if err != nil {
		return HandleError(h.logger, c, errors.ErrInvalidPayload())
	}

	contentType := fileHeader.Header.Get(echo.HeaderContentType)
	if contentType == "" || contentType == echo.MIMEOctetStream {
		contentType = http.DetectContentType(data)
	}

	result, err := h.ocrService.ExtractImage(c.Request().Context(), ocrUsecase.ImageInput{
		Principal:   p,
		Filename:    fileHeader.Filename,
		ContentType: contentType,
		Data:        data,
	})
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	return HandleSuccess(h.logger, c, result)
}

// ListPhotos handles GET /ocr/photos
// @Summary      Recent archived photos
// @Tags         OCR
// @Produce      json
// @Security     BearerAuth
// @Param        limit  query     int  false  "Max photos (1-100, default 20)"
// @Success      200  {object}  common.SuccessResponse{data=[]ocr.PhotoResponse}
// @Failure      400  {object}  common.ErrorResponse
// @Router       /ocr/photos [get]
func (h *OCR) ListPhotos(c echo.Context) error {
	p, err := principal(c)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	var req ocrDTO.ListPhotosRequest
	if err := bindAndValidate(c, &req); err != nil {
		return HandleError(h.logger, c, err)
	}

	links, err := h.ocrService.RecentPhotos(c.Request().Context(), p.GymID, req.Limit)
	if err != nil {
		return HandleError(h.logger, c, err)
	}

	c.Response().Header().Set("X-Total-Count", strconv.Itoa(len(links)))
	return HandleSuccess(h.logger, c, presenter.ToPhotoResponses(links))
}
