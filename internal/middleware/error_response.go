package middleware

import (
	"encoding/json"
	"net/http"

	"github.com/chumenium/spotlight/internal/model"
)

// ErrorBody はAPIエラーレスポンスのエラー部分を表す。
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// errorEnvelope はAPIエラーレスポンスの統一フォーマット。
// {"success": false, "error": {"code": ..., "message": ...}}
type errorEnvelope struct {
	Success bool      `json:"success"`
	Error   ErrorBody `json:"error"`
}

// WriteError は統一エラーフォーマットでHTTPエラーレスポンスを書き込む。
// すべてのAPIエンドポイントで一貫したエラーレスポンスを提供する。
func WriteError(w http.ResponseWriter, statusCode int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorEnvelope{
		Success: false,
		Error: ErrorBody{
			Code:    code,
			Message: message,
		},
	})
}

// WriteAPIError はmodel.APIErrorを統一エラーフォーマットで書き込む。
func WriteAPIError(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	WriteError(w, statusCode, apiErr.Code, apiErr.Message)
}

// WriteInternalServerError は内部サーバーエラーの統一レスポンスを書き込む。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func WriteInternalServerError(w http.ResponseWriter) {
	WriteError(w, http.StatusInternalServerError, model.ErrCodeServer, "内部エラーが発生しました。しばらく待ってから再度お試しください。")
}
