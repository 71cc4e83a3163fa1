package transfer

import "time"

// TwitterCredentials are the four OAuth 1.0a user-context secrets.
type TwitterCredentials struct {
	TwitterAPIKey       string `json:"twitterApiKey" form:"twitterApiKey"`
	TwitterAPISecret    string `json:"twitterApiSecret" form:"twitterApiSecret"`
	TwitterAccessToken  string `json:"twitterAccessToken" form:"twitterAccessToken"`
	TwitterAccessSecret string `json:"twitterAccessSecret" form:"twitterAccessSecret"`
}

type PostTweetRequest struct {
	TwitterCredentials
	UserName string `json:"userName" form:"userName"`
	Content  string `json:"content" form:"content"`
	ImageURL string `json:"imageUrl" form:"imageUrl"`
}

type ScheduleTweetRequest struct {
	TwitterCredentials
	UserName      string `json:"userName"`
	Content       string `json:"content"`
	ImageURL      string `json:"imageUrl"`
	ScheduledTime string `json:"scheduledTime"`
}

type BulkScheduleItem struct {
	Content       string `json:"content"`
	ImageURL      string `json:"imageUrl"`
	ScheduledTime string `json:"scheduledTime"`
}

type BulkScheduleRequest struct {
	TwitterCredentials
	UserName string             `json:"userName"`
	Tweets   []BulkScheduleItem `json:"tweets"`
}

type BulkScheduleResult struct {
	Index         int        `json:"index"`
	ID            int64      `json:"id,omitempty"`
	ScheduledTime *time.Time `json:"scheduledTime,omitempty"`
	Success       bool       `json:"success"`
	Message       string     `json:"message,omitempty"`
}

// TwitterTweetResponse is the body of POST /2/tweets.
type TwitterTweetResponse struct {
	Data struct {
		ID   string `json:"id"`
		Text string `json:"text"`
	} `json:"data"`
}

type TwitterMediaResponse struct {
	MediaID       int64  `json:"media_id"`
	MediaIDString string `json:"media_id_string"`
}

type TwitterErrorResponse struct {
	Title  string `json:"title"`
	Detail string `json:"detail"`
	Status int    `json:"status"`
	Errors []struct {
		Message string `json:"message"`
		Code    int    `json:"code"`
	} `json:"errors"`
}
