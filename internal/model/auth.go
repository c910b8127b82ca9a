package model

import "github.com/golang-jwt/jwt/v5"

// OperatorClaims are JWT claims binding an operator to one evaluator session
type OperatorClaims struct {
	OperatorID string `json:"operatorId"`
	SessionID  string `json:"sessionId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for operator login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token      string `json:"token"`
	OperatorID string `json:"operatorId"`
	SessionID  string `json:"sessionId"`
}
