package errors

// 에러 코드 상수 정의
// 형식: CATEGORY_SPECIFIC_DETAIL
// 프론트엔드에서 이 코드를 기반으로 메시지를 매핑함

const (
	// ==================== 인증 (AUTH_) ====================
	AuthUnauthorized = "AUTH_UNAUTHORIZED" // 로그인 필요
	AuthTokenExpired = "AUTH_TOKEN_EXPIRED" // 토큰 만료
	AuthTokenInvalid = "AUTH_TOKEN_INVALID" // 잘못된 토큰

	// ==================== 검증 (VALIDATION_) ====================
	ValidationInvalidInput = "VALIDATION_INVALID_INPUT" // 잘못된 입력
	ValidationInvalidID    = "VALIDATION_INVALID_ID"    // 잘못된 ID

	// ==================== 장바구니 (CART_) ====================
	CartAuthRequired      = "CART_AUTH_REQUIRED"      // 장바구니 담기 전 로그인 필요
	CartItemNotFound      = "CART_ITEM_NOT_FOUND"     // 장바구니에 없는 상품
	CartInsufficientStock = "CART_INSUFFICIENT_STOCK" // 재고 부족
	CartRetrySync         = "CART_RETRY_AFTER_SYNC"   // 동기화 후 재시도 필요
	CartProductRequired   = "CART_PRODUCT_REQUIRED"   // 상품 정보 누락

	// ==================== 외부/내부 오류 (INTERNAL_) ====================
	InternalServerError = "INTERNAL_SERVER_ERROR" // 서버 오류
	InternalBackendAPI  = "INTERNAL_BACKEND_API"  // 베이커리 백엔드 API 오류
)
