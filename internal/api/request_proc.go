package api

import (
	"github.com/labstack/echo/v4"
	"github.com/yakoovad/makarapreneur/internal/service"
	"io"
)

type step[T any] func(echo.Context, *T) *service.Error

// ProcessRequest runs the steps in order and stops at the first failure.
func ProcessRequest[T any](e echo.Context, req *T, steps ...step[T]) *service.Error {
	for _, s := range steps {
		if err := s(e, req); err != nil {
			return err
		}
	}
	return nil
}

func decodeStep[T any](e echo.Context, req *T) *service.Error {
	return decodeRequest(e, req)
}

func pathParamStep[T any](name string, set func(*T, string)) step[T] {
	return func(e echo.Context, req *T) *service.Error {
		v := e.Param(name)
		if v == "" {
			return service.NewError(service.ErrorCodeInvalidBody, name+" is required")
		}
		set(req, v)
		return nil
	}
}

// fileStep opens the multipart file under field. The caller closes it with closeUpload.
func fileStep[T any](field string, set func(*T, *service.Upload)) step[T] {
	return func(e echo.Context, req *T) *service.Error {
		fh, err := e.FormFile(field)
		if err != nil {
			return service.NewError(service.ErrorCodeInvalidBody, field+" is required")
		}

		f, err := fh.Open()
		if err != nil {
			return service.NewError(service.ErrorCodeInvalidBody, "failed to read "+field)
		}

		set(req, &service.Upload{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(echo.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
		return nil
	}
}

func closeUpload(u *service.Upload) {
	if u == nil {
		return
	}
	if c, ok := u.Body.(io.Closer); ok {
		_ = c.Close()
	}
}
