package delivery_http

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"strings"
)

const (
	playgroundCDN     = "//cdn.jsdelivr.net/npm/graphql-playground-react/build/"
	playgroundFontCSS = "https://fonts.googleapis.com/css"

	localAssets  = "/assets/"
	localFontCSS = "fonts/fonts.css"
)

// playgroundBuildFiles are the graphql-playground-react build files the page
// loads, relative to the build directory. scripts/vendor-playground.sh copies
// them into the assets directory.
var playgroundBuildFiles = []string{
	"static/css/index.css",
	"static/js/middleware.js",
	"favicon.png",
	"logo.png",
}

const playgroundTemplate = `<!DOCTYPE html>
<html>
<head>
  <meta charset=utf-8/>
  <meta name="viewport" content="user-scalable=no, initial-scale=1.0, minimum-scale=1.0, maximum-scale=1.0, minimal-ui">
  <title>GraphQL Playground</title>
  <link rel="stylesheet" href="//cdn.jsdelivr.net/npm/graphql-playground-react/build/static/css/index.css" />
  <link rel="shortcut icon" href="//cdn.jsdelivr.net/npm/graphql-playground-react/build/favicon.png" />
  <script src="//cdn.jsdelivr.net/npm/graphql-playground-react/build/static/js/middleware.js"></script>
</head>
<body>
  <div id="root">
    <style>
      body {
        background-color: rgb(23, 42, 58);
        font-family: Open Sans, sans-serif;
        height: 90vh;
      }
      #root {
        height: 100%;
        width: 100%;
        display: flex;
        align-items: center;
        justify-content: center;
      }
      .loading {
        font-size: 32px;
        font-weight: 200;
        color: rgba(255, 255, 255, .6);
        margin-left: 20px;
      }
      img {
        width: 78px;
        height: 78px;
      }
      .title {
        font-weight: 400;
      }
    </style>
    <link href="https://fonts.googleapis.com/css?family=Open+Sans:300,400,600,700|Source+Code+Pro:400,700" rel="stylesheet">
    <img src="//cdn.jsdelivr.net/npm/graphql-playground-react/build/logo.png" alt="">
    <div class="loading"> Loading
      <span class="title">GraphQL Playground</span>
    </div>
  </div>
  <script>window.addEventListener('load', function (event) {
    GraphQLPlayground.init(document.getElementById('root'), __CONFIG__);
  })</script>
</body>
</html>
`

type playgroundConfig struct {
	Endpoint             string `json:"endpoint"`
	SubscriptionEndpoint string `json:"subscriptionEndpoint"`
}

// PlaygroundHTML renders the playground page for endpoint. Every CDN
// reference whose file exists in assets is pointed at /assets instead; the
// others keep loading from the CDN. assets may be nil.
func PlaygroundHTML(endpoint, subscriptionEndpoint string, assets fs.FS) string {
	cfg, _ := json.Marshal(playgroundConfig{
		Endpoint:             endpoint,
		SubscriptionEndpoint: subscriptionEndpoint,
	})

	page := strings.Replace(playgroundTemplate, "__CONFIG__", string(cfg), 1)

	var replacements []string
	for _, file := range playgroundBuildFiles {
		if hasAsset(assets, file) {
			replacements = append(replacements, playgroundCDN+file, localAssets+file)
		}
	}
	if hasAsset(assets, localFontCSS) {
		replacements = append(replacements, playgroundFontCSS, localAssets+localFontCSS)
	}
	if len(replacements) == 0 {
		return page
	}
	return strings.NewReplacer(replacements...).Replace(page)
}

func hasAsset(assets fs.FS, name string) bool {
	if assets == nil {
		return false
	}
	info, err := fs.Stat(assets, name)
	return err == nil && !info.IsDir()
}

func playgroundHandler(endpoint, subscriptionEndpoint string, assets fs.FS) http.HandlerFunc {
	page := []byte(PlaygroundHTML(endpoint, subscriptionEndpoint, assets))
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(page)
	}
}
