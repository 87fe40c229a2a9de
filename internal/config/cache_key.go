package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// MockSessionKey returns the cache key for a generated mock exam session
func (r *CacheKeyStruct) MockSessionKey(sessionID string) string {
	return fmt.Sprintf("mock:%s:session", sessionID)
}

// MockAnswersKey returns the hash key holding a learner's autosaved answers
func (r *CacheKeyStruct) MockAnswersKey(userID, sessionID string) string {
	return fmt.Sprintf("user:%s:mock:%s:answers", userID, sessionID)
}

// MockSubmittedKey marks a mock session as already graded
func (r *CacheKeyStruct) MockSubmittedKey(sessionID string) string {
	return fmt.Sprintf("mock:%s:submitted", sessionID)
}

// SubjectQuestionsKey caches the authored question pool of a subject
func (r *CacheKeyStruct) SubjectQuestionsKey(subject string) string {
	return fmt.Sprintf("questions:%s", subject)
}

// GameProfileKey caches a learner's game profile
func (r *CacheKeyStruct) GameProfileKey(userID string) string {
	return fmt.Sprintf("user:%s:game_profile", userID)
}

var CacheKey = NewCacheKeyStruct()
