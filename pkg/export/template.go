package export

const wordOpen = `<!DOCTYPE html>
<html xmlns:o='urn:schemas-microsoft-com:office:office' xmlns:w='urn:schemas-microsoft-com:office:word' xmlns='http://www.w3.org/TR/REC-html40'>
<head>
<meta charset='utf-8'>
`

const wordHead = `<style>
  @page {
    size: A4;
    margin: 2cm;
  }
  body {
    font-family: 'Times New Roman', serif;
    font-size: 14pt;
    line-height: 1.5;
    color: #000000;
  }
  h1 {
    font-size: 18pt;
    font-weight: bold;
    text-align: center;
    margin-top: 0;
    margin-bottom: 20pt;
    color: #0EA5E9;
  }
  h2 {
    font-size: 16pt;
    font-weight: bold;
    margin-top: 20pt;
    margin-bottom: 12pt;
    color: #0EA5E9;
  }
  h3 {
    font-size: 14pt;
    font-weight: bold;
    margin-top: 16pt;
    margin-bottom: 10pt;
    color: #333333;
  }
  p {
    text-align: justify;
    margin-bottom: 10pt;
  }
  .title-page {
    text-align: center;
    margin-top: 100pt;
  }
  .title-page h1 {
    font-size: 24pt;
    margin-bottom: 40pt;
  }
  ul, ol {
    margin-left: 20pt;
    margin-bottom: 10pt;
  }
  li {
    margin-bottom: 6pt;
  }
  canvas, img {
    display: block;
    margin: 20pt auto;
    border: 1px solid #CCCCCC;
  }
</style>
</head>
<body>
`

const wordClose = `
</body>
</html>
`
