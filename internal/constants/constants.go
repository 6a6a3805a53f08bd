package constants

import "time"

var APIConfig = struct {
	CharhubBaseURL      string
	CharhubSearchPath   string
	CharhubDownloadPath string
	CharhubAvatarCDN    string
	RealmSearchURL      string
	CharhubTimeout      time.Duration
	ScrapeProxyTimeout  time.Duration
	TranslateTimeout    time.Duration
	ImportTimeout       time.Duration
}{
	CharhubBaseURL:      "https://api.chub.ai",
	CharhubSearchPath:   "/search",
	CharhubDownloadPath: "/api/characters/download",
	CharhubAvatarCDN:    "https://avatars.charhub.io/avatars/%s/avatar.webp",
	RealmSearchURL:      "https://realm.risuai.net/api/v1/search",
	CharhubTimeout:      15 * time.Second,
	ScrapeProxyTimeout:  30 * time.Second, // 렌더링 프록시는 느림
	TranslateTimeout:    15 * time.Second,
	ImportTimeout:       30 * time.Second,
}

var SearchConfig = struct {
	DefaultPageSize  int
	MinTokens        int
	TagJoinBudget    int
	ImageConcurrency int
}{
	DefaultPageSize:  24,
	MinTokens:        50,  // 저품질 카드 필터링 최소 토큰 수
	TagJoinBudget:    100, // 태그 목록 쿼리 파라미터 길이 제한
	ImageConcurrency: 8,
}

var DebounceConfig = struct {
	QuietPeriod time.Duration
}{
	QuietPeriod: 400 * time.Millisecond,
}

var TranslateConfig = struct {
	DefaultTargetLang string
	ProviderQueryLang string
	MaxBatchSize      int
}{
	DefaultTargetLang: "ko",
	ProviderQueryLang: "en", // 검색어는 제공자가 이해하는 언어로 변환
	MaxBatchSize:      200,
}

var StringLimits = struct {
	DisplayName        int
	DisplayDescription int
}{
	DisplayName:        80,
	DisplayDescription: 300,
}

// NoDescription is the placeholder for items without a description.
const NoDescription = "설명이 없습니다."
