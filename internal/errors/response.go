package errors

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorResponse 표준 에러 응답 구조
type ErrorResponse struct {
	Error    string `json:"error"`              // 에러 코드 (프론트엔드에서 매핑용)
	Message  string `json:"message"`            // 사용자 친화적 메시지 (한글)
	Redirect string `json:"redirect,omitempty"` // 로그인 후 돌아올 경로 (인증 에러에만)
}

// RespondWithError 에러 응답 헬퍼
// statusCode: HTTP 상태 코드
// errorCode: 에러 코드 상수 (codes.go 참조)
// message: 사용자에게 보여질 한글 메시지
func RespondWithError(c *gin.Context, statusCode int, errorCode string, message string) {
	c.JSON(statusCode, ErrorResponse{
		Error:   errorCode,
		Message: message,
	})
}

// 자주 사용하는 에러 응답 단축 함수들

func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "로그인이 필요합니다"
	}
	RespondWithError(c, http.StatusUnauthorized, AuthUnauthorized, message)
}

// LoginRequired 로그인 유도 응답: 인증 후 돌아올 경로를 함께 내려준다
func LoginRequired(c *gin.Context, redirect string) {
	c.JSON(http.StatusUnauthorized, ErrorResponse{
		Error:    CartAuthRequired,
		Message:  "장바구니를 사용하려면 로그인이 필요합니다",
		Redirect: redirect,
	})
}

func BadRequest(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusBadRequest, errorCode, message)
}

func NotFound(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusNotFound, errorCode, message)
}

func Conflict(c *gin.Context, errorCode string, message string) {
	RespondWithError(c, http.StatusConflict, errorCode, message)
}

func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "서버 오류가 발생했습니다. 잠시 후 다시 시도해주세요"
	}
	RespondWithError(c, http.StatusInternalServerError, InternalServerError, message)
}

func BadGateway(c *gin.Context, message string) {
	if message == "" {
		message = "베이커리 서버와의 통신에 실패했습니다. 잠시 후 다시 시도해주세요"
	}
	RespondWithError(c, http.StatusBadGateway, InternalBackendAPI, message)
}
